package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// SearchParams are the catalog search filters. Cursor is the opaque
// pagination token from a previous page, forwarded verbatim.
// Zero-valued optional filters are omitted from the query string.
type SearchParams struct {
	Keyword     string
	Category    string
	Subcategory string
	MinPrice    int64
	MaxPrice    int64
	Cursor      string
	Limit       int
}

// SearchPage is one page of search results. NextCursor is "" on the last page.
type SearchPage struct {
	Items      []CatalogItem
	NextCursor string
}

// searchResponse is the raw JSON from GET /v1/search/items.
type searchResponse struct {
	NextPageCursor string           `json:"nextPageCursor"`
	Data           []catalogItemRaw `json:"data"`
}

const defaultSearchLimit = 30

// SearchItems queries the catalog search endpoint.
// The endpoint is public for GETs; no CSRF token is sent.
func (c *httpClient) SearchItems(ctx context.Context, params SearchParams) (SearchPage, error) {
	q := url.Values{}
	q.Set("keyword", params.Keyword)
	category := params.Category
	if category == "" {
		category = "All"
	}
	q.Set("category", category)
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if params.Subcategory != "" {
		q.Set("subcategory", params.Subcategory)
	}
	if params.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatInt(params.MinPrice, 10))
	}
	if params.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(params.MaxPrice, 10))
	}
	if params.Cursor != "" {
		q.Set("cursor", params.Cursor)
	}

	body, err := c.get(ctx, c.catalogURL+"/v1/search/items?"+q.Encode())
	if err != nil {
		return SearchPage{}, err
	}

	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return SearchPage{}, &TransportError{Err: fmt.Errorf("decoding search response: %w", err)}
	}

	items := make([]CatalogItem, 0, len(raw.Data))
	for _, it := range raw.Data {
		items = append(items, fromCatalogItemRaw(it))
	}
	return SearchPage{Items: items, NextCursor: raw.NextPageCursor}, nil
}

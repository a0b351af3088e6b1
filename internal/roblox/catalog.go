package roblox

import (
	"context"
	"encoding/json"
	"fmt"
)

// CatalogItem is one entry from the bulk catalog details or search endpoints.
type CatalogItem struct {
	ID          int64
	Name        string
	AssetTypeID int
	CreatorName string
	Price       int64
	Limited     bool
}

// catalogItemsRequest is the POST body for /v1/catalog/items/details.
type catalogItemsRequest struct {
	Items []catalogItemRef `json:"items"`
}

type catalogItemRef struct {
	ItemType string `json:"itemType"`
	ID       int64  `json:"id"`
}

// catalogItemRaw is the raw JSON shape of one catalog item.
// itemRestrictions carries "Limited"/"LimitedUnique" markers for limiteds.
type catalogItemRaw struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	AssetType        int      `json:"assetType"`
	CreatorName      string   `json:"creatorName"`
	Price            int64    `json:"price"`
	ItemRestrictions []string `json:"itemRestrictions"`
}

type catalogItemsResponse struct {
	Data []catalogItemRaw `json:"data"`
}

// GetCatalogDetails fetches details for up to one batch of asset IDs in a
// single round trip. The endpoint is CSRF-challenged; the first call will
// transparently perform the challenge round trip.
func (c *httpClient) GetCatalogDetails(ctx context.Context, ids []int64) ([]CatalogItem, error) {
	refs := make([]catalogItemRef, len(ids))
	for i, id := range ids {
		refs[i] = catalogItemRef{ItemType: "Asset", ID: id}
	}

	body, err := c.post(ctx, c.catalogURL+"/v1/catalog/items/details", catalogItemsRequest{Items: refs})
	if err != nil {
		return nil, err
	}

	var raw catalogItemsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding catalog details: %w", err)}
	}

	items := make([]CatalogItem, 0, len(raw.Data))
	for _, it := range raw.Data {
		items = append(items, fromCatalogItemRaw(it))
	}
	return items, nil
}

func fromCatalogItemRaw(it catalogItemRaw) CatalogItem {
	limited := false
	for _, r := range it.ItemRestrictions {
		if r == "Limited" || r == "LimitedUnique" {
			limited = true
			break
		}
	}
	return CatalogItem{
		ID:          it.ID,
		Name:        it.Name,
		AssetTypeID: it.AssetType,
		CreatorName: it.CreatorName,
		Price:       it.Price,
		Limited:     limited,
	}
}

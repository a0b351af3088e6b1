package roblox

import (
	"context"
	"encoding/json"
	"fmt"
)

// AssetDetails holds the per-asset record from the economy details endpoint.
// Enrichment fields (CreatorName, Price, limited flags) are zero-valued when
// upstream omits them; that is a valid state, not an error.
type AssetDetails struct {
	ID            int64
	Name          string
	AssetTypeID   int
	CreatorName   string
	Price         int64
	Limited       bool
	LimitedUnique bool
}

// economyDetailsResponse is the raw JSON from GET /v2/assets/{id}/details.
// The economy API uses PascalCase field names.
type economyDetailsResponse struct {
	Name        string `json:"Name"`
	AssetTypeID int    `json:"AssetTypeId"`
	Creator     struct {
		Name string `json:"Name"`
	} `json:"Creator"`
	PriceInRobux    int64 `json:"PriceInRobux"`
	IsLimited       bool  `json:"IsLimited"`
	IsLimitedUnique bool  `json:"IsLimitedUnique"`
}

// GetAssetDetails fetches one asset from the economy details endpoint.
// The endpoint is public; no CSRF token is sent.
func (c *httpClient) GetAssetDetails(ctx context.Context, id int64) (AssetDetails, error) {
	url := fmt.Sprintf("%s/v2/assets/%d/details", c.economyURL, id)
	body, err := c.get(ctx, url)
	if err != nil {
		return AssetDetails{}, err
	}

	var raw economyDetailsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return AssetDetails{}, &TransportError{Err: fmt.Errorf("decoding asset %d details: %w", id, err)}
	}

	return AssetDetails{
		ID:            id,
		Name:          raw.Name,
		AssetTypeID:   raw.AssetTypeID,
		CreatorName:   raw.Creator.Name,
		Price:         raw.PriceInRobux,
		Limited:       raw.IsLimited,
		LimitedUnique: raw.IsLimitedUnique,
	}, nil
}

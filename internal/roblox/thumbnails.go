package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultThumbnailSize matches the size the frontend renders asset cards at.
const DefaultThumbnailSize = "420x420"

// thumbnailsResponse is the raw JSON from GET /v1/assets.
type thumbnailsResponse struct {
	Data []struct {
		TargetID int64  `json:"targetId"`
		State    string `json:"state"`
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// GetThumbnails fetches thumbnail URLs for a batch of asset IDs.
// IDs whose thumbnail is not yet generated (state other than "Completed")
// map to ""; an empty URL is a valid, non-error state.
func (c *httpClient) GetThumbnails(ctx context.Context, ids []int64, size string) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	if size == "" {
		size = DefaultThumbnailSize
	}

	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("assetIds", strings.Join(joined, ","))
	q.Set("size", size)
	q.Set("format", "Png")

	body, err := c.get(ctx, c.thumbnailsURL+"/v1/assets?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var raw thumbnailsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding thumbnails response: %w", err)}
	}

	thumbs := make(map[int64]string, len(raw.Data))
	for _, t := range raw.Data {
		if t.State == "Completed" {
			thumbs[t.TargetID] = t.ImageURL
		} else {
			thumbs[t.TargetID] = ""
		}
	}
	return thumbs, nil
}

// AssetThumbnailURL builds the constructed template URL for a single asset,
// used where a thumbnail batch lookup was not performed.
func AssetThumbnailURL(id int64, size string) string {
	if size == "" {
		size = DefaultThumbnailSize
	}
	return fmt.Sprintf("%s/v1/assets?assetIds=%d&size=%s&format=Png", defaultThumbnailsURL, id, size)
}

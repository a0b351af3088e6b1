package lookup

import (
	"context"

	"github.com/rbxlens/rbxlens/internal/roblox"
)

// mockClient implements roblox.Client for tests.
// Each method delegates to the corresponding Fn field if non-nil;
// otherwise it returns the zero value and nil error.
type mockClient struct {
	GetAssetDetailsFn   func(ctx context.Context, id int64) (roblox.AssetDetails, error)
	GetCatalogDetailsFn func(ctx context.Context, ids []int64) ([]roblox.CatalogItem, error)
	SearchItemsFn       func(ctx context.Context, params roblox.SearchParams) (roblox.SearchPage, error)
	GetThumbnailsFn     func(ctx context.Context, ids []int64, size string) (map[int64]string, error)
	FetchCSRFTokenFn    func(ctx context.Context) (string, error)
}

var _ roblox.Client = (*mockClient)(nil)

func (m *mockClient) GetAssetDetails(ctx context.Context, id int64) (roblox.AssetDetails, error) {
	if m.GetAssetDetailsFn != nil {
		return m.GetAssetDetailsFn(ctx, id)
	}
	return roblox.AssetDetails{}, nil
}

func (m *mockClient) GetCatalogDetails(ctx context.Context, ids []int64) ([]roblox.CatalogItem, error) {
	if m.GetCatalogDetailsFn != nil {
		return m.GetCatalogDetailsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockClient) SearchItems(ctx context.Context, params roblox.SearchParams) (roblox.SearchPage, error) {
	if m.SearchItemsFn != nil {
		return m.SearchItemsFn(ctx, params)
	}
	return roblox.SearchPage{}, nil
}

func (m *mockClient) GetThumbnails(ctx context.Context, ids []int64, size string) (map[int64]string, error) {
	if m.GetThumbnailsFn != nil {
		return m.GetThumbnailsFn(ctx, ids, size)
	}
	return map[int64]string{}, nil
}

func (m *mockClient) FetchCSRFToken(ctx context.Context) (string, error) {
	if m.FetchCSRFTokenFn != nil {
		return m.FetchCSRFTokenFn(ctx)
	}
	return "", nil
}

package api

import (
	"context"
	"time"

	"github.com/rbxlens/rbxlens/internal/auth"
	"github.com/rbxlens/rbxlens/internal/cache"
	"github.com/rbxlens/rbxlens/internal/lookup"
)

// mockLookuper implements Lookuper for tests.
// Each method delegates to the corresponding Fn field if non-nil;
// otherwise it returns the zero value and nil error.
type mockLookuper struct {
	LookupIDsFn func(ctx context.Context, raw string) (*lookup.Result, error)
	SearchFn    func(ctx context.Context, q lookup.Query) (*lookup.SearchResult, error)
}

var _ Lookuper = (*mockLookuper)(nil)

func (m *mockLookuper) LookupIDs(ctx context.Context, raw string) (*lookup.Result, error) {
	if m.LookupIDsFn != nil {
		return m.LookupIDsFn(ctx, raw)
	}
	return &lookup.Result{}, nil
}

func (m *mockLookuper) Search(ctx context.Context, q lookup.Query) (*lookup.SearchResult, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, q)
	}
	return &lookup.SearchResult{}, nil
}

// mockStore implements cache.Store for tests.
type mockStore struct {
	GetFn      func(ctx context.Context, key string) ([]byte, bool, error)
	GetStaleFn func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn      func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFn   func(ctx context.Context, keys ...string) (int64, error)
	ListKeysFn func(ctx context.Context, prefix string) ([]string, error)
	StatsFn    func(ctx context.Context) (cache.Stats, error)
}

var _ cache.Store = (*mockStore)(nil)

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockStore) GetStale(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetStaleFn != nil {
		return m.GetStaleFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, keys...)
	}
	return 0, nil
}

func (m *mockStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if m.ListKeysFn != nil {
		return m.ListKeysFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockStore) Stats(ctx context.Context) (cache.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return cache.Stats{}, nil
}

// mockOAuth implements OAuthProvider for tests.
type mockOAuth struct {
	GenerateAuthURLFn func() string
	HandleCallbackFn  func(ctx context.Context, code, state string) (auth.UserInfo, error)
}

var _ OAuthProvider = (*mockOAuth)(nil)

func (m *mockOAuth) GenerateAuthURL() string {
	if m.GenerateAuthURLFn != nil {
		return m.GenerateAuthURLFn()
	}
	return "/"
}

func (m *mockOAuth) HandleCallback(ctx context.Context, code, state string) (auth.UserInfo, error) {
	if m.HandleCallbackFn != nil {
		return m.HandleCallbackFn(ctx, code, state)
	}
	return auth.UserInfo{}, nil
}

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// openStores returns both Store implementations with an injectable clock,
// so every behavior below is verified against each.
func openStores(t *testing.T) map[string]struct {
	store   Store
	setNow  func(time.Time)
	cleanup func()
} {
	t.Helper()

	mem := NewMemory()
	memNow := time.Now()
	mem.now = func() time.Time { return memNow }

	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("opening sqlite store: %v", err)
	}
	sqNow := time.Now()
	sq.now = func() time.Time { return sqNow }

	return map[string]struct {
		store   Store
		setNow  func(time.Time)
		cleanup func()
	}{
		"memory": {mem, func(ts time.Time) { memNow = ts }, func() {}},
		"sqlite": {sq, func(ts time.Time) { sqNow = ts }, func() { _ = sq.Close() }},
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			ctx := context.Background()

			if err := s.store.Set(ctx, AssetKey(123), []byte(`{"id":123}`), time.Hour); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := s.store.Get(ctx, AssetKey(123))
			if err != nil || !ok {
				t.Fatalf("Get: ok=%v err=%v", ok, err)
			}
			if string(got) != `{"id":123}` {
				t.Errorf("value: got %q", got)
			}
		})
	}
}

func TestStore_MissingKeyAbsentNotError(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			_, ok, err := s.store.Get(context.Background(), AssetKey(999))
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok {
				t.Error("expected absent for missing key")
			}
		})
	}
}

func TestStore_ExpiredAbsentButStaleReadable(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			ctx := context.Background()

			start := time.Now()
			s.setNow(start)
			if err := s.store.Set(ctx, AssetKey(7), []byte("v"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}

			s.setNow(start.Add(2 * time.Minute))

			if _, ok, _ := s.store.Get(ctx, AssetKey(7)); ok {
				t.Error("Get: expected absent after TTL lapse")
			}

			got, ok, err := s.store.GetStale(ctx, AssetKey(7))
			if err != nil || !ok {
				t.Fatalf("GetStale: ok=%v err=%v", ok, err)
			}
			if string(got) != "v" {
				t.Errorf("stale value: got %q", got)
			}
		})
	}
}

func TestStore_DeleteReturnsCount(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			ctx := context.Background()

			_ = s.store.Set(ctx, AssetKey(1), []byte("a"), time.Hour)
			_ = s.store.Set(ctx, AssetKey(2), []byte("b"), time.Hour)

			n, err := s.store.Delete(ctx, AssetKey(1), AssetKey(2), AssetKey(3))
			if err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if n != 2 {
				t.Errorf("deleted: got %d, want 2", n)
			}
			if _, ok, _ := s.store.Get(ctx, AssetKey(1)); ok {
				t.Error("entry survived Delete")
			}
		})
	}
}

func TestStore_ListKeysByPrefix(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			ctx := context.Background()

			_ = s.store.Set(ctx, AssetKey(10), []byte("a"), time.Hour)
			_ = s.store.Set(ctx, AssetKey(20), []byte("b"), time.Hour)
			_ = s.store.Set(ctx, "other:1", []byte("c"), time.Hour)

			keys, err := s.store.ListKeys(ctx, AssetKeyPrefix)
			if err != nil {
				t.Fatalf("ListKeys: %v", err)
			}
			if len(keys) != 2 {
				t.Fatalf("keys: got %v, want 2 asset keys", keys)
			}
			for _, k := range keys {
				if k != AssetKey(10) && k != AssetKey(20) {
					t.Errorf("unexpected key %q", k)
				}
			}
		})
	}
}

func TestStore_Stats(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			ctx := context.Background()

			empty, err := s.store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if empty.Entries != 0 || !empty.Oldest.IsZero() {
				t.Errorf("empty stats: got %+v", empty)
			}

			_ = s.store.Set(ctx, AssetKey(1), []byte("abcd"), time.Hour)
			_ = s.store.Set(ctx, AssetKey(2), []byte("ef"), time.Hour)

			st, err := s.store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if st.Entries != 2 {
				t.Errorf("Entries: got %d, want 2", st.Entries)
			}
			if st.TotalBytes != 6 {
				t.Errorf("TotalBytes: got %d, want 6", st.TotalBytes)
			}
			if st.Oldest.IsZero() {
				t.Error("Oldest: expected non-zero")
			}
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.cleanup()
			ctx := context.Background()

			_ = s.store.Set(ctx, AssetKey(5), []byte("old"), time.Hour)
			_ = s.store.Set(ctx, AssetKey(5), []byte("new"), time.Hour)

			got, ok, _ := s.store.Get(ctx, AssetKey(5))
			if !ok || string(got) != "new" {
				t.Errorf("value after overwrite: got %q (ok=%v)", got, ok)
			}
		})
	}
}

func TestAssetKey(t *testing.T) {
	if got := AssetKey(42); got != "asset:42" {
		t.Errorf("AssetKey(42): got %q, want asset:42", got)
	}
}

// Package cache is the TTL'd key-value store for normalized asset records.
// The store is a collaborator, not a system of record: every consumer must
// work when no store is configured, degrading to direct upstream calls.
//
// Expired entries are reported absent by Get but remain readable through
// GetStale until pruned, so callers can serve a degraded result when the
// upstream is unreachable.
package cache

import (
	"context"
	"strconv"
	"time"
)

// Store is the cache contract consumed by the lookup orchestrator and the
// cache-management API. Implementations must be safe for concurrent use.
// No atomicity is guaranteed across a Get/Set pair; a miss simply triggers
// a fresh fetch-then-store.
type Store interface {
	// Get returns the live value for key, or ok=false when the key is
	// missing or its TTL has lapsed.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// GetStale returns the value for key even when expired.
	GetStale(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// ListKeys returns all keys with the given prefix, expired ones included.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// Stats summarizes the store contents.
	Stats(ctx context.Context) (Stats, error)
}

// Stats describes the current store contents, expired entries included.
type Stats struct {
	Entries    int64
	TotalBytes int64
	Oldest     time.Time // zero when the store is empty
}

// AssetKeyPrefix namespaces asset records in the store.
const AssetKeyPrefix = "asset:"

// AssetKey builds the store key for an asset ID.
func AssetKey(id int64) string {
	return AssetKeyPrefix + strconv.FormatInt(id, 10)
}

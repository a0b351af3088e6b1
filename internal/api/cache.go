package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rbxlens/rbxlens/internal/cache"
)

type cacheDeleteResponseJSON struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type cacheStatsJSON struct {
	Success   bool   `json:"success"`
	Entries   int64  `json:"entries"`
	TotalSize string `json:"totalSize"`
	OldestAge string `json:"oldestAge,omitempty"`
}

// Handles:
//
//	DELETE /api/cache?assetId=123
//	DELETE /api/cache?clearAll=true
func (rt *router) handleDeleteCache(w http.ResponseWriter, req *http.Request) {
	if rt.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no cache store configured")
		return
	}

	q := req.URL.Query()
	ctx := req.Context()

	switch {
	case q.Get("clearAll") == "true":
		keys, err := rt.store.ListKeys(ctx, cache.AssetKeyPrefix)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list cache keys")
			return
		}
		deleted, err := rt.store.Delete(ctx, keys...)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear cache")
			return
		}
		writeJSON(w, http.StatusOK, cacheDeleteResponseJSON{
			Success: true, Message: "cache cleared", Deleted: deleted,
		})

	case q.Get("assetId") != "":
		id, err := strconv.ParseInt(q.Get("assetId"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid assetId")
			return
		}
		deleted, err := rt.store.Delete(ctx, cache.AssetKey(id))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete cache entry")
			return
		}
		writeJSON(w, http.StatusOK, cacheDeleteResponseJSON{
			Success: true, Message: "cache entry deleted", Deleted: deleted,
		})

	default:
		writeError(w, http.StatusBadRequest, "assetId or clearAll=true is required")
	}
}

// Handles:
//
//	GET /api/cache/stats
func (rt *router) handleGetCacheStats(w http.ResponseWriter, req *http.Request) {
	if rt.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no cache store configured")
		return
	}

	stats, err := rt.store.Stats(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read cache stats")
		return
	}

	resp := cacheStatsJSON{
		Success:   true,
		Entries:   stats.Entries,
		TotalSize: humanize.Bytes(uint64(stats.TotalBytes)),
	}
	if !stats.Oldest.IsZero() {
		resp.OldestAge = humanize.RelTime(stats.Oldest, time.Now(), "old", "")
	}
	writeJSON(w, http.StatusOK, resp)
}

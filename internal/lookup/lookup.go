// Package lookup is the asset lookup orchestrator.
// It validates and de-duplicates user-supplied ID lists, fans out to the
// Roblox client in bounded batches, threads results through the cache when
// one is configured, and groups the normalized assets by category.
//
// Partial-failure tolerance is the contract here: a single asset that
// cannot be resolved becomes a placeholder, never an aborted request.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rbxlens/rbxlens/internal/assettype"
	"github.com/rbxlens/rbxlens/internal/cache"
	"github.com/rbxlens/rbxlens/internal/roblox"
)

// Asset is the normalized per-item record returned to the API layer and
// stored in the cache (without the Source annotation).
type Asset struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AssetTypeID   int    `json:"assetTypeId"`
	Category      string `json:"category"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	CreatorName   string `json:"creator,omitempty"`
	Price         int64  `json:"price,omitempty"`
	Limited       bool   `json:"isLimited,omitempty"`
	LimitedUnique bool   `json:"isLimitedUnique,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Source values distinguish how an asset record was obtained.
const (
	SourceFresh       = "fresh"
	SourceCache       = "cache"
	SourceStale       = "stale"
	SourcePlaceholder = "placeholder"
)

// CategoryGroup is one category bucket of a lookup result.
// AssetTypeID is the smallest type code seen in the bucket; it is the
// ordering tie-breaker, not a claim that the bucket is homogeneous.
type CategoryGroup struct {
	Category    string  `json:"category"`
	AssetTypeID int     `json:"assetTypeId"`
	Assets      []Asset `json:"assets"`
}

// Result is a categorized lookup outcome. Assets keeps first-seen input
// order; Categories is ordered by descending size, ties by ascending
// asset type ID.
type Result struct {
	Assets     []Asset         `json:"assets"`
	Categories []CategoryGroup `json:"categories"`
}

// SearchResult is one page of search-mode results. NextCursor is the
// upstream pagination token, forwarded verbatim.
type SearchResult struct {
	Items      []Asset `json:"items"`
	NextCursor string  `json:"nextCursor"`
}

// Query are the search-mode parameters.
type Query struct {
	Keyword     string
	Category    string
	Subcategory string
	MinPrice    int64
	MaxPrice    int64
	Cursor      string
}

// Invalid-input conditions. Recovered locally by the API layer (HTTP 400),
// never a crash.
var (
	ErrNoValidIDs   = errors.New("no valid asset IDs in input")
	ErrEmptyKeyword = errors.New("empty search keyword")
)

const (
	defaultBatchSize = 20
	maxBatchSize     = 100
)

// Orchestrator coordinates the client, the cache and the type catalog.
type Orchestrator struct {
	client    roblox.Client
	store     cache.Store // nil disables caching; lookups go straight upstream
	batchSize int
	ttl       time.Duration
	log       zerolog.Logger
}

// New builds an Orchestrator. store may be nil. batchSize outside [1, 100]
// falls back to the default of 20.
func New(client roblox.Client, store cache.Store, batchSize int, ttl time.Duration, log zerolog.Logger) *Orchestrator {
	if batchSize < 1 || batchSize > maxBatchSize {
		batchSize = defaultBatchSize
	}
	return &Orchestrator{
		client:    client,
		store:     store,
		batchSize: batchSize,
		ttl:       ttl,
		log:       log,
	}
}

var idPattern = regexp.MustCompile(`^\d+$`)

// ParseIDs extracts the distinct numeric asset IDs from a raw input string.
// Tokens are split on whitespace and commas; anything not matching ^\d+$ is
// discarded. First-occurrence order is preserved.
func ParseIDs(raw string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	for _, tok := range tokens {
		if !idPattern.MatchString(tok) {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			// Matches ^\d+$ but overflows int64; treat like any other
			// invalid token.
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// LookupIDs resolves raw into a categorized result.
// Batches run sequentially; fetches inside a batch run in parallel. Batch
// N+1 does not start until every fetch in batch N has settled.
func (o *Orchestrator) LookupIDs(ctx context.Context, raw string) (*Result, error) {
	ids := ParseIDs(raw)
	if len(ids) == 0 {
		return &Result{}, ErrNoValidIDs
	}

	assets := make([]Asset, len(ids))
	for start := 0; start < len(ids); start += o.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+o.batchSize, len(ids))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assets[i] = o.resolveAsset(ctx, ids[i])
			}(i)
		}
		wg.Wait()
	}

	return &Result{Assets: assets, Categories: groupAssets(assets)}, nil
}

// Search forwards the keyword plus filters to the search endpoint and
// enriches the returned items with batched thumbnails. Unlike ids mode
// there is no per-item fallback: a failed search is a failed request.
func (o *Orchestrator) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return &SearchResult{}, ErrEmptyKeyword
	}

	page, err := o.client.SearchItems(ctx, roblox.SearchParams{
		Keyword:     q.Keyword,
		Category:    q.Category,
		Subcategory: q.Subcategory,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		Cursor:      q.Cursor,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(page.Items))
	for i, it := range page.Items {
		ids[i] = it.ID
	}

	thumbs, err := o.client.GetThumbnails(ctx, ids, "")
	if err != nil {
		// Thumbnails are decoration; a failed batch leaves URLs empty.
		o.log.Warn().Err(err).Msg("thumbnail lookup failed, returning items without thumbnails")
		thumbs = nil
	}

	items := make([]Asset, len(page.Items))
	for i, it := range page.Items {
		items[i] = fromCatalogItem(it, thumbs[it.ID])
	}
	return &SearchResult{Items: items, NextCursor: page.NextCursor}, nil
}

// resolveAsset produces exactly one Asset for id, whatever happens:
// cache hit, fresh fetch, stale fallback, or placeholder.
func (o *Orchestrator) resolveAsset(ctx context.Context, id int64) Asset {
	key := cache.AssetKey(id)

	if o.store != nil {
		raw, ok, err := o.store.Get(ctx, key)
		if err != nil {
			o.log.Warn().Err(err).Int64("asset_id", id).Msg("cache read failed, going upstream")
		} else if ok {
			if a, derr := decodeAsset(raw); derr == nil {
				a.Source = SourceCache
				return a
			}
			// Corrupt entry: ignore it and fetch fresh.
		}
	}

	details, err := o.client.GetAssetDetails(ctx, id)
	if err != nil {
		if o.store != nil && staleFallbackEligible(err) {
			if raw, ok, serr := o.store.GetStale(ctx, key); serr == nil && ok {
				if a, derr := decodeAsset(raw); derr == nil {
					o.log.Warn().Err(err).Int64("asset_id", id).Msg("upstream failed, serving stale cache entry")
					a.Source = SourceStale
					return a
				}
			}
		}
		o.log.Warn().Err(err).Int64("asset_id", id).Msg("asset lookup failed, substituting placeholder")
		return placeholderAsset(id)
	}

	a := fromDetails(details)
	if o.store != nil {
		if raw, merr := encodeAsset(a); merr == nil {
			if serr := o.store.Set(ctx, key, raw, o.ttl); serr != nil {
				o.log.Warn().Err(serr).Int64("asset_id", id).Msg("cache write failed")
			}
		}
	}
	a.Source = SourceFresh
	return a
}

// staleFallbackEligible reports whether a stale cache entry may stand in
// for err. Upstream and transport failures qualify; anything else (which
// the client does not currently produce) does not.
func staleFallbackEligible(err error) bool {
	var ue *roblox.UpstreamError
	var rl *roblox.RateLimitError
	var te *roblox.TransportError
	return errors.As(err, &ue) || errors.As(err, &rl) || errors.As(err, &te)
}

func placeholderAsset(id int64) Asset {
	return Asset{
		ID:       id,
		Name:     fmt.Sprintf("Asset %d", id),
		Category: assettype.Unknown,
		Source:   SourcePlaceholder,
	}
}

func fromDetails(d roblox.AssetDetails) Asset {
	name := d.Name
	if name == "" {
		name = fmt.Sprintf("Asset %d", d.ID)
	}
	return Asset{
		ID:            d.ID,
		Name:          name,
		AssetTypeID:   d.AssetTypeID,
		Category:      assettype.Name(d.AssetTypeID),
		ThumbnailURL:  roblox.AssetThumbnailURL(d.ID, ""),
		CreatorName:   d.CreatorName,
		Price:         d.Price,
		Limited:       d.Limited,
		LimitedUnique: d.LimitedUnique,
	}
}

func fromCatalogItem(it roblox.CatalogItem, thumbnailURL string) Asset {
	name := it.Name
	if name == "" {
		name = fmt.Sprintf("Asset %d", it.ID)
	}
	return Asset{
		ID:           it.ID,
		Name:         name,
		AssetTypeID:  it.AssetTypeID,
		Category:     assettype.Name(it.AssetTypeID),
		ThumbnailURL: thumbnailURL,
		CreatorName:  it.CreatorName,
		Price:        it.Price,
		Limited:      it.Limited,
	}
}

// encodeAsset serializes an asset for the cache with the Source annotation
// cleared, so cache hits are byte-identical to the fresh record.
func encodeAsset(a Asset) ([]byte, error) {
	a.Source = ""
	return json.Marshal(a)
}

func decodeAsset(raw []byte) (Asset, error) {
	var a Asset
	if err := json.Unmarshal(raw, &a); err != nil {
		return Asset{}, err
	}
	if a.ID <= 0 {
		return Asset{}, fmt.Errorf("cache entry has invalid asset id %d", a.ID)
	}
	return a, nil
}

// groupAssets buckets assets by category. Categories are ordered by
// descending item count, ties broken by ascending asset type ID; assets
// inside a bucket keep input order.
func groupAssets(assets []Asset) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, a := range assets {
		i, ok := index[a.Category]
		if !ok {
			i = len(groups)
			index[a.Category] = i
			groups = append(groups, CategoryGroup{Category: a.Category, AssetTypeID: a.AssetTypeID})
		}
		if a.AssetTypeID < groups[i].AssetTypeID {
			groups[i].AssetTypeID = a.AssetTypeID
		}
		groups[i].Assets = append(groups[i].Assets, a)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Assets) != len(groups[j].Assets) {
			return len(groups[i].Assets) > len(groups[j].Assets)
		}
		return groups[i].AssetTypeID < groups[j].AssetTypeID
	})
	return groups
}

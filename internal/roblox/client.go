// Package roblox is the HTTP client for the Roblox catalog, economy,
// thumbnail and auth endpoints.
// Responsibilities: make HTTP requests, return typed structs, surface
// failures as UpstreamError / RateLimitError / TransportError.
// Has no knowledge of the cache or the lookup pipeline.
//
// The client performs no retries: 429 metadata is returned to callers so
// they can decide their own backoff. The only repeated request is the CSRF
// challenge round trip on POST endpoints, which is part of the upstream
// protocol rather than a retry policy.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	defaultEconomyURL    = "https://economy.roblox.com"
	defaultCatalogURL    = "https://catalog.roblox.com"
	defaultThumbnailsURL = "https://thumbnails.roblox.com"
	defaultAuthURL       = "https://auth.roblox.com"

	// defaultTimeout bounds every upstream call when the caller passes
	// a nil *http.Client. Expiry surfaces as a TransportError.
	defaultTimeout = 10 * time.Second
)

// Client is the interface consumed by the lookup orchestrator.
type Client interface {
	GetAssetDetails(ctx context.Context, id int64) (AssetDetails, error)
	GetCatalogDetails(ctx context.Context, ids []int64) ([]CatalogItem, error)
	SearchItems(ctx context.Context, params SearchParams) (SearchPage, error)
	GetThumbnails(ctx context.Context, ids []int64, size string) (map[int64]string, error)
	FetchCSRFToken(ctx context.Context) (string, error)
}

// Compile-time assertion: *httpClient implements Client.
var _ Client = (*httpClient)(nil)

type httpClient struct {
	economyURL    string
	catalogURL    string
	thumbnailsURL string
	authURL       string
	http          *http.Client

	// csrfToken caches the last token handed out by an upstream 403
	// challenge. Guarded by mu; cleared implicitly by being overwritten
	// on the next challenge.
	mu        sync.Mutex
	csrfToken string
}

// NewClient builds a client against the production Roblox endpoints.
// Pass nil to use a default client with a bounded per-call timeout.
func NewClient(hc *http.Client) Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &httpClient{
		economyURL:    defaultEconomyURL,
		catalogURL:    defaultCatalogURL,
		thumbnailsURL: defaultThumbnailsURL,
		authURL:       defaultAuthURL,
		http:          hc,
	}
}

// get issues a GET and returns the body on 2xx.
// Non-2xx becomes an UpstreamError (RateLimitError for 429);
// network and body-read failures become TransportError.
func (c *httpClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp, body)
	}
	return body, nil
}

// post issues a JSON POST. A 403 answer carrying an x-csrf-token header is
// the upstream CSRF challenge: the token is stored and the request is
// re-issued exactly once with the token attached.
func (c *httpClient) post(ctx context.Context, url string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.mu.Lock()
	token := c.csrfToken
	c.mu.Unlock()

	body, challenge, err := c.postOnce(ctx, url, raw, token)
	if challenge == "" {
		return body, err
	}

	c.mu.Lock()
	c.csrfToken = challenge
	c.mu.Unlock()

	body, _, err = c.postOnce(ctx, url, raw, challenge)
	return body, err
}

// postOnce performs a single POST. When the response is the 403 CSRF
// challenge, the fresh token is returned as challenge and err is nil-checked
// by the caller; in every other case challenge is "".
func (c *httpClient) postOnce(ctx context.Context, url string, raw []byte, token string) (body []byte, challenge string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("X-CSRF-TOKEN", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusForbidden {
		if fresh := resp.Header.Get("x-csrf-token"); fresh != "" && fresh != token {
			return nil, fresh, nil
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", statusError(resp, body)
	}
	return body, "", nil
}

// FetchCSRFToken primes a CSRF token via the auth logout probe.
// The endpoint always rejects the unauthenticated POST but returns a usable
// token in the x-csrf-token response header.
func (c *httpClient) FetchCSRFToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/v2/logout", nil)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	token := resp.Header.Get("x-csrf-token")
	if token == "" {
		return "", statusError(resp, body)
	}

	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()

	return token, nil
}

// statusError classifies a non-2xx response.
func statusError(resp *http.Response, body []byte) error {
	ue := UpstreamError{
		StatusCode: resp.StatusCode,
		Message:    parseErrorMessage(body),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			UpstreamError: ue,
			Limit:         headerInt(resp, "x-ratelimit-limit"),
			Remaining:     headerInt(resp, "x-ratelimit-remaining"),
			Reset:         headerInt(resp, "x-ratelimit-reset"),
		}
	}
	return &ue
}

// headerInt parses an integer header value, returning -1 when absent or malformed.
func headerInt(resp *http.Response, name string) int {
	v := resp.Header.Get(name)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

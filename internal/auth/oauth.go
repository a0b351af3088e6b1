// Package auth implements the Roblox OAuth2 authorization code flow.
// Responsibilities: generate authorization URL, exchange code for tokens,
// fetch the user's identity via /userinfo. Uses golang.org/x/oauth2.
//
// Session management is deliberately absent: the callback handler verifies
// who logged in and hands the identity back to the caller, nothing more.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	robloxAuthURL     = "https://apis.roblox.com/oauth/v1/authorize"
	robloxTokenURL    = "https://apis.roblox.com/oauth/v1/token"
	robloxUserinfoURL = "https://apis.roblox.com/oauth/v1/userinfo"
)

// robloxScopes are the OAuth2 scopes needed to identify the logged-in user.
var robloxScopes = []string{"openid", "profile"}

// UserInfo identifies a logged-in Roblox user.
type UserInfo struct {
	ID          int64
	Username    string
	DisplayName string
}

// userinfoResponse is the JSON payload returned by /userinfo.
// sub carries the numeric user ID as a string.
type userinfoResponse struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// Provider manages the Roblox OAuth2 authorization code flow.
// It is safe for concurrent use.
type Provider struct {
	conf        *oauth2.Config
	httpClient  *http.Client
	userinfoURL string
	states      map[string]struct{}
	mu          sync.Mutex
}

// NewProvider constructs a Provider using the given Roblox OAuth2 app
// credentials. httpClient is used for the /userinfo call and injected into
// the OAuth2 token exchange. Pass nil to use http.DefaultClient.
func NewProvider(clientID, clientSecret, callbackURL string, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Provider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       robloxScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  robloxAuthURL,
				TokenURL: robloxTokenURL,
			},
		},
		httpClient:  httpClient,
		userinfoURL: robloxUserinfoURL,
		states:      make(map[string]struct{}),
	}
}

// GenerateAuthURL returns the Roblox authorization URL with a fresh random
// state value. The state is stored internally and consumed exactly once by
// HandleCallback.
func (p *Provider) GenerateAuthURL() string {
	state := uuid.NewString()
	p.mu.Lock()
	p.states[state] = struct{}{}
	p.mu.Unlock()
	return p.conf.AuthCodeURL(state)
}

// HandleCallback validates the OAuth2 state, exchanges the authorization
// code for tokens, and resolves the logged-in user via /userinfo.
func (p *Provider) HandleCallback(ctx context.Context, code, state string) (UserInfo, error) {
	p.mu.Lock()
	_, valid := p.states[state]
	if valid {
		delete(p.states, state)
	}
	p.mu.Unlock()

	if !valid {
		return UserInfo{}, fmt.Errorf("invalid or expired OAuth state")
	}

	// Inject the custom HTTP client so oauth2 uses it for the token exchange.
	// This enables testing without real network calls.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return UserInfo{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	return p.callUserinfo(ctx, token.AccessToken)
}

// callUserinfo resolves the access token into a user identity.
func (p *Provider) callUserinfo(ctx context.Context, accessToken string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("calling userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, fmt.Errorf("userinfo returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UserInfo{}, fmt.Errorf("reading userinfo response: %w", err)
	}

	var u userinfoResponse
	if err := json.Unmarshal(body, &u); err != nil {
		return UserInfo{}, fmt.Errorf("parsing userinfo response: %w", err)
	}

	id, err := strconv.ParseInt(u.Sub, 10, 64)
	if err != nil || id <= 0 {
		return UserInfo{}, fmt.Errorf("userinfo returned invalid sub %q", u.Sub)
	}

	name := u.Name
	if name == "" {
		name = u.PreferredUsername
	}
	return UserInfo{ID: id, Username: u.PreferredUsername, DisplayName: name}, nil
}

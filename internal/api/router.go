// Package api contains the Chi router and all HTTP handlers.
// Handlers never call the Roblox APIs directly. Asset resolution goes
// through the lookup orchestrator; cache administration talks to the
// store interface. The router serves the embedded frontend static files
// alongside the JSON API.
//
// Middleware stack: request logger, Recoverer, CORS,
// Content-Type: application/json (API routes only).
package api

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rbxlens/rbxlens/internal/auth"
	"github.com/rbxlens/rbxlens/internal/cache"
	"github.com/rbxlens/rbxlens/internal/lookup"
)

// Lookuper is the slice of the lookup orchestrator the handlers need.
type Lookuper interface {
	LookupIDs(ctx context.Context, raw string) (*lookup.Result, error)
	Search(ctx context.Context, q lookup.Query) (*lookup.SearchResult, error)
}

// OAuthProvider handles the Roblox login round trip.
type OAuthProvider interface {
	GenerateAuthURL() string
	HandleCallback(ctx context.Context, code, state string) (auth.UserInfo, error)
}

type router struct {
	lookup Lookuper
	store  cache.Store // nil when caching is disabled
	oauth  OAuthProvider
	log    zerolog.Logger
}

// NewRouter assembles the Chi router with all middleware and handlers.
// store and oauth may be nil; the corresponding endpoints then answer
// 503 and 500 respectively.
func NewRouter(l Lookuper, store cache.Store, oauth OAuthProvider, static fs.FS, log zerolog.Logger) http.Handler {
	rt := &router{lookup: l, store: store, oauth: oauth, log: log}

	mux := chi.NewRouter()
	mux.Use(requestLogger(log))
	mux.Use(middleware.Recoverer)
	mux.Use(corsMiddleware)

	mux.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/lookup", rt.handleGetLookup)
		r.Delete("/cache", rt.handleDeleteCache)
		r.Get("/cache/stats", rt.handleGetCacheStats)
	})

	mux.Get("/auth/roblox/login", rt.handleLogin)
	mux.Get("/auth/roblox/callback", rt.handleCallback)

	mux.Handle("/*", newSPAHandler(static))

	return mux
}

// requestLogger logs one line per request with a generated request ID.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", uuid.NewString()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rbxlens/rbxlens/internal/api"
	"github.com/rbxlens/rbxlens/internal/auth"
	"github.com/rbxlens/rbxlens/internal/cache"
	"github.com/rbxlens/rbxlens/internal/config"
	"github.com/rbxlens/rbxlens/internal/lookup"
	"github.com/rbxlens/rbxlens/internal/roblox"
)

// staticFiles holds the frontend, embedded at build time.
// web/dist ships with a placeholder page; drop a compiled SPA build in
// its place to serve a real frontend.
//
//go:embed all:web/dist
var staticFiles embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := newLogger(cfg.Env)

	var store cache.Store
	if cfg.CachePath != "" {
		db, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer db.Close() //nolint:errcheck // Close on shutdown, error is inconsequential
		store = db
		log.Info().Str("path", cfg.CachePath).Msg("using sqlite cache")
	} else {
		store = cache.NewMemory()
		log.Info().Msg("using in-memory cache")
	}

	client := roblox.NewClient(nil)

	ttl := time.Duration(cfg.CacheTTLDays) * 24 * time.Hour
	orchestrator := lookup.New(client, store, cfg.BatchSize, ttl, log)

	var provider api.OAuthProvider
	if cfg.OAuth.Enabled() {
		provider = auth.NewProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.CallbackURL, nil)
		log.Info().Msg("roblox login enabled")
	}

	distFS, err := fs.Sub(staticFiles, "web/dist")
	if err != nil {
		return fmt.Errorf("preparing static files: %w", err)
	}

	router := api.NewRouter(orchestrator, store, provider, distFS, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle SIGINT and SIGTERM for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		// Give in-flight requests up to 10 seconds to finish.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("rbxlens listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}

	log.Info().Msg("shutdown complete")
	return nil
}

// newLogger builds the process logger. Development gets the console
// writer; production emits JSON.
func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

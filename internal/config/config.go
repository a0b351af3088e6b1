// Package config loads runtime configuration from a YAML file with
// environment-variable overrides for credentials. A .env file is honored
// when present so local development does not need exported variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "rbxlens.yaml"

// Config holds all runtime configuration for rbxlens.
type Config struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"` // "development" | "production"

	// CachePath is the SQLite cache file. Empty selects the in-memory
	// store, which loses its contents on restart.
	CachePath    string `yaml:"cache_path"`
	CacheTTLDays int    `yaml:"cache_ttl_days"`
	BatchSize    int    `yaml:"batch_size"`

	OAuth OAuthConfig `yaml:"oauth"`
}

// OAuthConfig holds the Roblox OAuth2 app credentials.
// The trio is optional as a whole: leaving it empty disables the login
// endpoints rather than failing startup.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// Enabled reports whether login is configured.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.CallbackURL != ""
}

// Load reads the config file path from CLI flags and delegates to
// loadFromFile. A missing file at the default path is not an error; an
// explicitly passed path must exist.
func Load() (*Config, error) {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Parse()
	return loadFromFile(*configPath, *configPath == defaultConfigPath)
}

func loadFromFile(path string, optional bool) (*Config, error) {
	// Load .env before reading overrides. Absence is fine.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment only.
	default:
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:         8080,
		Env:          "development",
		CacheTTLDays: 30,
		BatchSize:    20,
	}
}

// applyEnv overlays credential and path settings from the environment.
// YAML is for topology; secrets belong in the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("RBXLENS_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("RBXLENS_OAUTH_CLIENT_ID"); v != "" {
		cfg.OAuth.ClientID = v
	}
	if v := os.Getenv("RBXLENS_OAUTH_CLIENT_SECRET"); v != "" {
		cfg.OAuth.ClientSecret = v
	}
	if v := os.Getenv("RBXLENS_OAUTH_CALLBACK_URL"); v != "" {
		cfg.OAuth.CallbackURL = v
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.CacheTTLDays <= 0 {
		return fmt.Errorf("cache_ttl_days must be greater than 0, got %d", c.CacheTTLDays)
	}
	if c.BatchSize < 1 || c.BatchSize > 100 {
		return fmt.Errorf("batch_size must be between 1 and 100, got %d", c.BatchSize)
	}
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("env must be development or production, got %q", c.Env)
	}

	o := c.OAuth
	if (o.ClientID != "" || o.ClientSecret != "" || o.CallbackURL != "") && !o.Enabled() {
		return fmt.Errorf("oauth requires client_id, client_secret and callback_url together")
	}
	return nil
}

// Package config loads TOML configuration for the transmem CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ZaguanLabs/transmem"
)

// Config is the root configuration document.
type Config struct {
	Database Database `toml:"database"`
	Provider Provider `toml:"provider"`
	Cache    Cache    `toml:"cache"`
	Reuse    Reuse    `toml:"reuse"`
	Logging  Logging  `toml:"logging"`
}

// Database locates the SQLite translation memory.
type Database struct {
	Path string `toml:"path"`
}

// Provider configures the external translation capability.
type Provider struct {
	APIKey            string `toml:"api_key"` // falls back to OPENAI_API_KEY
	Model             string `toml:"model"`
	RequestsPerMinute int    `toml:"requests_per_minute"` // 0 disables rate limiting
	MaxRetries        int    `toml:"max_retries"`         // 0 disables retries
}

// Cache configures the optional exact-hash segment cache.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	RedisURL   string `toml:"redis_url"` // empty = in-memory
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Reuse holds the engine's tunable policy values. Zero values mean "use the
// engine default".
type Reuse struct {
	Cutoff            float64 `toml:"cutoff"`
	MatchThreshold    float64 `toml:"match_threshold"`
	DocumentThreshold float64 `toml:"document_threshold"`
	FreshnessHours    int     `toml:"freshness_hours"`
	MinLookupLength   int     `toml:"min_lookup_length"`
}

// Logging configures the structured logger.
type Logging struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Database: Database{Path: "translations.db"},
		Provider: Provider{Model: "gpt-4o-mini", MaxRetries: 3},
		Logging:  Logging{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an
// error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects out-of-range policy values.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("config: database.path must not be empty")
	}
	for name, v := range map[string]float64{
		"reuse.cutoff":             c.Reuse.Cutoff,
		"reuse.match_threshold":    c.Reuse.MatchThreshold,
		"reuse.document_threshold": c.Reuse.DocumentThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("config: %s must be in [0, 1], got %v", name, v)
		}
	}
	if c.Reuse.FreshnessHours < 0 {
		return errors.New("config: reuse.freshness_hours must not be negative")
	}
	return nil
}

// EngineOptions converts the reuse section into engine options, leaving
// engine defaults in place for zero values.
func (c Config) EngineOptions() []transmem.EngineOption {
	var opts []transmem.EngineOption
	if c.Reuse.Cutoff > 0 {
		opts = append(opts, transmem.WithReuseCutoff(c.Reuse.Cutoff))
	}
	if c.Reuse.MatchThreshold > 0 {
		opts = append(opts, transmem.WithMatchThreshold(c.Reuse.MatchThreshold))
	}
	if c.Reuse.DocumentThreshold > 0 {
		opts = append(opts, transmem.WithDocumentThreshold(c.Reuse.DocumentThreshold))
	}
	if c.Reuse.FreshnessHours > 0 {
		opts = append(opts, transmem.WithFreshness(time.Duration(c.Reuse.FreshnessHours)*time.Hour))
	}
	if c.Reuse.MinLookupLength > 0 {
		opts = append(opts, transmem.WithMinLookupLength(c.Reuse.MinLookupLength))
	}
	return opts
}

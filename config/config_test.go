package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Path != "translations.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Provider.Model != "gpt-4o-mini" {
		t.Errorf("Provider.Model = %q", cfg.Provider.Model)
	}
	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("Provider.MaxRetries = %d", cfg.Provider.MaxRetries)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed on missing file: %v", err)
	}
	if cfg.Database.Path != Default().Database.Path {
		t.Errorf("Missing file did not fall back to defaults: %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	content := `
[database]
path = "/var/lib/transmem/tm.db"

[provider]
api_key = "sk-test"
model = "gpt-4o"
requests_per_minute = 30
max_retries = 5

[cache]
enabled = true
redis_url = "redis://localhost:6379"
ttl_seconds = 3600

[reuse]
cutoff = 0.97
match_threshold = 0.85
document_threshold = 0.75
freshness_hours = 48
min_lookup_length = 5

[logging]
level = "debug"
`
	path := filepath.Join(t.TempDir(), "transmem.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/var/lib/transmem/tm.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Provider.APIKey != "sk-test" || cfg.Provider.Model != "gpt-4o" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Provider.RequestsPerMinute != 30 || cfg.Provider.MaxRetries != 5 {
		t.Errorf("Provider limits = %+v", cfg.Provider)
	}
	if !cfg.Cache.Enabled || cfg.Cache.RedisURL != "redis://localhost:6379" || cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Reuse.Cutoff != 0.97 || cfg.Reuse.FreshnessHours != 48 || cfg.Reuse.MinLookupLength != 5 {
		t.Errorf("Reuse = %+v", cfg.Reuse)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	content := `
[provider]
model = "gpt-4o"
`
	path := filepath.Join(t.TempDir(), "transmem.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.Model != "gpt-4o" {
		t.Errorf("Provider.Model = %q", cfg.Provider.Model)
	}
	if cfg.Database.Path != "translations.db" {
		t.Errorf("Unset section lost its default: %q", cfg.Database.Path)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transmem.toml")
	if err := os.WriteFile(path, []byte("[[[not toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "cutoff above one",
			mutate:  func(c *Config) { c.Reuse.Cutoff = 1.5 },
			wantErr: "cutoff",
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.Reuse.MatchThreshold = -0.1 },
			wantErr: "match_threshold",
		},
		{
			name:    "negative freshness",
			mutate:  func(c *Config) { c.Reuse.FreshnessHours = -1 },
			wantErr: "freshness_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q missing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	if got := len(cfg.EngineOptions()); got != 0 {
		t.Errorf("Default EngineOptions = %d, want 0 (engine defaults apply)", got)
	}

	cfg.Reuse.Cutoff = 0.97
	cfg.Reuse.FreshnessHours = 48
	if got := len(cfg.EngineOptions()); got != 2 {
		t.Errorf("EngineOptions = %d, want 2", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.CollectionID != DefaultCollectionID {
		t.Errorf("CollectionID: got %q", cfg.CollectionID)
	}
	if cfg.Limit != 100 || cfg.LastPage != 20 {
		t.Errorf("pagination defaults: limit %d, last_page %d", cfg.Limit, cfg.LastPage)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers default: got %d, want 0 (runtime-derived)", cfg.Workers)
	}
	if cfg.Retry.Attempts != 5 || cfg.Retry.Backoff != 500*time.Millisecond {
		t.Errorf("retry defaults: %+v", cfg.Retry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
base_url: https://staging.example.com/mlhub/v1
collection_id: ref_landcovernet_v2_labels
workers: 8
max_items: 50
chunk_size: 1MB
labels_only: true
retry:
  attempts: 3
  backoff: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.BaseURL != "https://staging.example.com/mlhub/v1" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.CollectionID != "ref_landcovernet_v2_labels" {
		t.Errorf("CollectionID: got %q", cfg.CollectionID)
	}
	if cfg.Workers != 8 || cfg.MaxItems != 50 {
		t.Errorf("workers %d, max_items %d", cfg.Workers, cfg.MaxItems)
	}
	if cfg.ChunkSize != 1024*1024 {
		t.Errorf("ChunkSize: got %d", cfg.ChunkSize)
	}
	if !cfg.LabelsOnly {
		t.Error("LabelsOnly not set")
	}
	if cfg.Retry.Attempts != 3 || cfg.Retry.Backoff != 2*time.Second {
		t.Errorf("retry: %+v", cfg.Retry)
	}
	// Unset fields keep defaults.
	if cfg.Limit != 100 || cfg.LastPage != 20 {
		t.Errorf("defaults lost: limit %d, last_page %d", cfg.Limit, cfg.LastPage)
	}
}

func TestLoadFromFileBadChunkSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: nonsense\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("LoadFromFile accepted invalid chunk_size")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MLHUB_ACCESS_TOKEN", "env-token")
	t.Setenv("MLHUB_WORKERS", "12")
	t.Setenv("MLHUB_MAX_ITEMS", "7")
	t.Setenv("MLHUB_PROGRESS", "1")
	t.Setenv("MLHUB_RETRY_BACKOFF", "3s")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Token != "env-token" {
		t.Errorf("Token: got %q", cfg.Token)
	}
	if cfg.Workers != 12 || cfg.MaxItems != 7 {
		t.Errorf("workers %d, max_items %d", cfg.Workers, cfg.MaxItems)
	}
	if !cfg.Progress {
		t.Error("Progress not set")
	}
	if cfg.Retry.Backoff != 3*time.Second {
		t.Errorf("retry backoff: %v", cfg.Retry.Backoff)
	}
}

func TestLoadFromEnvBadValue(t *testing.T) {
	t.Setenv("MLHUB_WORKERS", "lots")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("LoadFromEnv accepted invalid MLHUB_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base_url", func(c *Config) { c.BaseURL = "" }},
		{"missing collection_id", func(c *Config) { c.CollectionID = "" }},
		{"zero limit", func(c *Config) { c.Limit = 0 }},
		{"zero last_page", func(c *Config) { c.LastPage = 0 }},
		{"zero chunk_size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative max_items", func(c *Config) { c.MaxItems = -1 }},
	}
	for _, c := range cases {
		cfg := Default()
		c.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted invalid config", c.name)
		}
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{
		Token:    "flag-token",
		MaxItems: 10,
		Workers:  4,
	})

	if merged.Token != "flag-token" || merged.MaxItems != 10 || merged.Workers != 4 {
		t.Errorf("merged overrides lost: %+v", merged)
	}
	if merged.BaseURL != DefaultBaseURL || merged.Limit != 100 {
		t.Errorf("merged defaults lost: %+v", merged)
	}
}

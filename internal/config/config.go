package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dataJSA/radiant-mlhub/internal/progress"
)

// DefaultBaseURL is the production MLHub catalog API root.
const DefaultBaseURL = "https://api.radiant.earth/mlhub/v1"

// DefaultCollectionID is the LandCoverNet labels collection.
const DefaultCollectionID = "ref_landcovernet_v1_labels"

// Config defines configuration for the mlhub CLI.
type Config struct {
	BaseURL      string      `yaml:"base_url"`
	Token        string      `yaml:"token"`
	CollectionID string      `yaml:"collection_id"`
	FeatureID    string      `yaml:"feature_id"`
	Workers      int         `yaml:"workers"`
	Limit        int         `yaml:"limit"`
	MaxItems     int         `yaml:"max_items"`
	LastPage     int         `yaml:"last_page"`
	LabelsOnly   bool        `yaml:"labels_only"`
	ChunkSize    int64       `yaml:"chunk_size"`
	Progress     bool        `yaml:"progress"`
	LogLevel     string      `yaml:"log_level"`
	Retry        RetryConfig `yaml:"retry"`
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with sensible defaults. Workers defaults to 0,
// which lets the fan-out pick min(32, NumCPU+4) at run time.
func Default() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		CollectionID: DefaultCollectionID,
		Limit:        100,
		LastPage:     20,
		ChunkSize:    512 * 1024,
		LogLevel:     "info",
		Retry: RetryConfig{
			Attempts:   5,
			Backoff:    500 * time.Millisecond,
			MaxBackoff: 30 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string chunk size and
// durations.
type yamlConfig struct {
	BaseURL      string          `yaml:"base_url"`
	Token        string          `yaml:"token"`
	CollectionID string          `yaml:"collection_id"`
	FeatureID    string          `yaml:"feature_id"`
	Workers      int             `yaml:"workers"`
	Limit        int             `yaml:"limit"`
	MaxItems     int             `yaml:"max_items"`
	LastPage     int             `yaml:"last_page"`
	LabelsOnly   bool            `yaml:"labels_only"`
	ChunkSize    string          `yaml:"chunk_size"`
	Progress     bool            `yaml:"progress"`
	LogLevel     string          `yaml:"log_level"`
	Retry        yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts   int    `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.BaseURL != "" {
		cfg.BaseURL = yc.BaseURL
	}
	if yc.Token != "" {
		cfg.Token = yc.Token
	}
	if yc.CollectionID != "" {
		cfg.CollectionID = yc.CollectionID
	}
	if yc.FeatureID != "" {
		cfg.FeatureID = yc.FeatureID
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Limit != 0 {
		cfg.Limit = yc.Limit
	}
	if yc.MaxItems != 0 {
		cfg.MaxItems = yc.MaxItems
	}
	if yc.LastPage != 0 {
		cfg.LastPage = yc.LastPage
	}
	cfg.LabelsOnly = yc.LabelsOnly
	if yc.ChunkSize != "" {
		size, err := progress.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	cfg.Progress = yc.Progress
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the MLHUB_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("MLHUB_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("MLHUB_ACCESS_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("MLHUB_COLLECTION_ID"); v != "" {
		c.CollectionID = v
	}
	if v := os.Getenv("MLHUB_FEATURE_ID"); v != "" {
		c.FeatureID = v
	}
	if v := os.Getenv("MLHUB_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("MLHUB_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_LIMIT: %w", err)
		}
		c.Limit = n
	}
	if v := os.Getenv("MLHUB_MAX_ITEMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_MAX_ITEMS: %w", err)
		}
		c.MaxItems = n
	}
	if v := os.Getenv("MLHUB_LAST_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_LAST_PAGE: %w", err)
		}
		c.LastPage = n
	}
	if v := os.Getenv("MLHUB_LABELS_ONLY"); v != "" {
		c.LabelsOnly = v == "true" || v == "1"
	}
	if v := os.Getenv("MLHUB_CHUNK_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("MLHUB_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("MLHUB_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MLHUB_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("MLHUB_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("MLHUB_RETRY_MAX_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MLHUB_RETRY_MAX_BACKOFF: %w", err)
		}
		c.Retry.MaxBackoff = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.CollectionID == "" {
		return errors.New("config: collection_id is required")
	}
	if c.Limit <= 0 {
		return errors.New("config: limit must be positive")
	}
	if c.LastPage <= 0 {
		return errors.New("config: last_page must be positive")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if c.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	if c.MaxItems < 0 {
		return errors.New("config: max_items must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.BaseURL != "" {
		c.BaseURL = override.BaseURL
	}
	if override.Token != "" {
		c.Token = override.Token
	}
	if override.CollectionID != "" {
		c.CollectionID = override.CollectionID
	}
	if override.FeatureID != "" {
		c.FeatureID = override.FeatureID
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Limit != 0 {
		c.Limit = override.Limit
	}
	if override.MaxItems != 0 {
		c.MaxItems = override.MaxItems
	}
	if override.LastPage != 0 {
		c.LastPage = override.LastPage
	}
	if override.LabelsOnly {
		c.LabelsOnly = override.LabelsOnly
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = override.Retry.MaxBackoff
	}
	return c
}

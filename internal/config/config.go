package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. MDWRITER_LOG_LEVEL.
const Prefix = "mdwriter"

// Config holds all application configuration.
type Config struct {
	DataDir      string `envconfig:"DATA_DIR"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogDev       bool   `envconfig:"LOG_DEV" default:"false"`
	LogFile      string `envconfig:"LOG_FILE"`
	RecentLimit  int    `envconfig:"RECENT_LIMIT" default:"20"`
	NoRecent     bool   `envconfig:"NO_RECENT" default:"false"`
	PreviewWidth int    `envconfig:"PREVIEW_WIDTH" default:"80"`
}

// Load loads configuration from environment variables and fills in the
// paths that depend on the user's directories.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	if c.DataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
		c.DataDir = filepath.Join(dir, "mdwriter")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "mdwriter.log")
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = 20
	}
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = 80
	}
	return nil
}

// RecentDBPath is the DuckDB file that stores recently opened documents.
func (c *Config) RecentDBPath() string {
	return filepath.Join(c.DataDir, "recent.duckdb")
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

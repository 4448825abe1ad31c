package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for kgraph.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8461"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Graph construction configuration
	Graph GraphConfig `yaml:"graph"`
}

// GraphConfig holds knowledge-graph build settings.
type GraphConfig struct {
	// DatabasePath is the SQLite database file the graph is built from.
	// It doubles as the schema identity recorded in the snapshot.
	DatabasePath string `yaml:"database_path" env:"KG_DATABASE_PATH" env-default:"data.db"`

	// SnapshotDir overrides the directory the snapshot file is written to.
	// Empty means "next to the database file".
	SnapshotDir string `yaml:"snapshot_dir" env:"KG_SNAPSHOT_DIR" env-default:""`

	// SampleRowLimit is the number of rows fetched per table during sampling.
	SampleRowLimit int `yaml:"sample_row_limit" env:"KG_SAMPLE_ROW_LIMIT" env-default:"5"`

	// CommonValueThreshold is the distinct-count ceiling below which a column
	// gets a most-common-values distribution.
	CommonValueThreshold int64 `yaml:"common_value_threshold" env:"KG_COMMON_VALUE_THRESHOLD" env-default:"20"`

	// MaxJoinDepth bounds the breadth-first join-path search.
	MaxJoinDepth int `yaml:"max_join_depth" env:"KG_MAX_JOIN_DEPTH" env-default:"3"`

	// BuildTimeoutSeconds bounds the whole introspection + sampling pass.
	// Zero disables the timeout.
	BuildTimeoutSeconds int `yaml:"build_timeout_seconds" env:"KG_BUILD_TIMEOUT_SECONDS" env-default:"120"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// A missing config.yaml is not an error; defaults and environment apply.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects configurations the build phase cannot work with.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Graph.DatabasePath) == "" {
		return fmt.Errorf("graph.database_path must not be empty")
	}
	if c.Graph.SampleRowLimit <= 0 {
		return fmt.Errorf("graph.sample_row_limit must be positive, got %d", c.Graph.SampleRowLimit)
	}
	if c.Graph.MaxJoinDepth <= 0 {
		return fmt.Errorf("graph.max_join_depth must be positive, got %d", c.Graph.MaxJoinDepth)
	}
	return nil
}

// SnapshotPath returns the snapshot file path for the configured database:
// the database path with its extension replaced by "_graph.json", optionally
// relocated into SnapshotDir.
func (c *GraphConfig) SnapshotPath() string {
	base := strings.TrimSuffix(c.DatabasePath, filepath.Ext(c.DatabasePath)) + "_graph.json"
	if c.SnapshotDir == "" {
		return base
	}
	return filepath.Join(c.SnapshotDir, filepath.Base(base))
}

// BuildTimeout returns the build deadline as a duration. Zero means no
// timeout.
func (c *GraphConfig) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutSeconds) * time.Second
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

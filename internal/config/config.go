// Package config loads the stockwatch client configuration from a YAML file
// with environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockwatch clients.
type Config struct {
	API     API     `yaml:"api"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

// API holds the backend endpoint configuration.
type API struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Storage holds paths for local client state (token file, offline cache).
type Storage struct {
	StateDir  string `yaml:"state_dir"`
	CachePath string `yaml:"cache_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, fills in
// defaults for anything unset, and then applies environment variable
// overrides. A missing file is not an error: defaults plus environment
// produce a complete configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			// Fall through to defaults.
		default:
			return nil, err
		}
	}

	explicitCachePath := cfg.Storage.CachePath != ""
	applyDefaults(cfg)
	applyEnvOverrides(cfg, explicitCachePath)

	return cfg, nil
}

// applyDefaults fills unset fields with local development defaults.
func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Storage.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Storage.StateDir = filepath.Join(home, ".stockwatch")
	}
	if cfg.Storage.CachePath == "" {
		cfg.Storage.CachePath = filepath.Join(cfg.Storage.StateDir, "cache.db")
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set. explicitCachePath
// reports whether the file set cache_path itself, in which case moving the
// state dir does not move the cache.
func applyEnvOverrides(cfg *Config, explicitCachePath bool) {
	if v := os.Getenv("STOCKWATCH_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if v := os.Getenv("STOCKWATCH_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.API.TimeoutSeconds = secs
		}
	}

	if v := os.Getenv("STOCKWATCH_STATE_DIR"); v != "" {
		cfg.Storage.StateDir = v
		if !explicitCachePath {
			cfg.Storage.CachePath = filepath.Join(v, "cache.db")
		}
	}

	if v := os.Getenv("STOCKWATCH_CACHE_PATH"); v != "" {
		cfg.Storage.CachePath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	yamlContent := []byte(`
api:
  base_url: "https://stocks.example.com"
  timeout_seconds: 30
storage:
  state_dir: "/tmp/stockwatch"
  cache_path: "/tmp/stockwatch/offline.db"
logging:
  level: "debug"
  format: "json"
`)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, yamlContent, 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.API.BaseURL != "https://stocks.example.com" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://stocks.example.com")
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("API.TimeoutSeconds = %d, want 30", cfg.API.TimeoutSeconds)
	}
	if cfg.Storage.StateDir != "/tmp/stockwatch" {
		t.Errorf("Storage.StateDir = %q, want %q", cfg.Storage.StateDir, "/tmp/stockwatch")
	}
	if cfg.Storage.CachePath != "/tmp/stockwatch/offline.db" {
		t.Errorf("Storage.CachePath = %q, want %q", cfg.Storage.CachePath, "/tmp/stockwatch/offline.db")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file returned error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("default API.BaseURL = %q, want local dev endpoint", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 10 {
		t.Errorf("default API.TimeoutSeconds = %d, want 10", cfg.API.TimeoutSeconds)
	}
	if cfg.Storage.StateDir == "" {
		t.Error("default Storage.StateDir should not be empty")
	}
	if cfg.Storage.CachePath == "" {
		t.Error("default Storage.CachePath should not be empty")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOCKWATCH_API_URL", "https://override.example.com")
	t.Setenv("STOCKWATCH_STATE_DIR", "/var/lib/stockwatch")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.API.BaseURL != "https://override.example.com" {
		t.Errorf("API.BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Storage.StateDir != "/var/lib/stockwatch" {
		t.Errorf("Storage.StateDir = %q, want env override", cfg.Storage.StateDir)
	}
	if want := filepath.Join("/var/lib/stockwatch", "cache.db"); cfg.Storage.CachePath != want {
		t.Errorf("Storage.CachePath = %q, want %q (derived from state dir)", cfg.Storage.CachePath, want)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
}

func TestStateDirOverrideKeepsExplicitCachePath(t *testing.T) {
	yamlContent := []byte(`
storage:
  state_dir: "/tmp/stockwatch"
  cache_path: "/srv/data/stockwatch.db"
`)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, yamlContent, 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	t.Setenv("STOCKWATCH_STATE_DIR", "/var/lib/stockwatch")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.StateDir != "/var/lib/stockwatch" {
		t.Errorf("Storage.StateDir = %q, want env override", cfg.Storage.StateDir)
	}
	if cfg.Storage.CachePath != "/srv/data/stockwatch.db" {
		t.Errorf("Storage.CachePath = %q, want the file's explicit path kept", cfg.Storage.CachePath)
	}
}

func TestEnvTimeoutOverride(t *testing.T) {
	t.Setenv("STOCKWATCH_API_TIMEOUT", "45")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.TimeoutSeconds != 45 {
		t.Errorf("API.TimeoutSeconds = %d, want 45", cfg.API.TimeoutSeconds)
	}

	t.Setenv("STOCKWATCH_API_TIMEOUT", "not-a-number")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.TimeoutSeconds != 10 {
		t.Errorf("API.TimeoutSeconds = %d, want default 10 when override is invalid", cfg.API.TimeoutSeconds)
	}
}

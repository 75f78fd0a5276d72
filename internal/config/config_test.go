package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Expert.Endpoint == "" || cfg.Dispatch.MaxConcurrent == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
expert:
  endpoint: http://inference.internal/v1/chat/completions
  timeout_seconds: 30
dispatch:
  max_concurrent: 8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Expert.Endpoint != "http://inference.internal/v1/chat/completions" {
		t.Errorf("endpoint: %q", cfg.Expert.Endpoint)
	}
	if cfg.ExpertTimeout() != 30*time.Second {
		t.Errorf("timeout: %v", cfg.ExpertTimeout())
	}
	if cfg.Dispatch.MaxConcurrent != 8 {
		t.Errorf("max concurrent: %d", cfg.Dispatch.MaxConcurrent)
	}
	// Untouched keys keep defaults.
	if cfg.Expert.Model == "" || cfg.Audit.DBPath == "" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

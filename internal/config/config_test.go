package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Debounce != time.Second {
		t.Errorf("debounce = %v, want 1s", cfg.Debounce)
	}
	if cfg.Interval != 60*time.Second {
		t.Errorf("interval = %v, want 60s", cfg.Interval)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join(".finsync", "finsync.db")) {
		t.Errorf("db path = %q", cfg.DBPath)
	}
}

func TestWriteDefaultThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := WriteDefault("https://example.com/webapp")
	if err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.WebAppURL != "https://example.com/webapp" {
		t.Errorf("web app url = %q", cfg.WebAppURL)
	}

	// A second init must refuse to clobber the file.
	if _, err := WriteDefault("https://other.example.com"); err == nil {
		t.Error("WriteDefault() overwrote an existing config")
	}
}

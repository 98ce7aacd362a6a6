package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != backendFile || cfg.Store.WebhookFile != "webhooks.yaml" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Pipeline.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.Pipeline.RequestTimeout)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "announced.yaml")
	err := os.WriteFile(path, []byte(`listen: ":9000"
store:
  backend: memory
log:
  level: debug
  format: json
pipeline:
  concurrency: 2
  poll_interval: 5s
  failure_log_enabled: true
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("ANNOUNCE_LISTEN=:9100\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANNOUNCE_CONCURRENCY", "4")
	t.Cleanup(func() { os.Unsetenv("ANNOUNCE_LISTEN") })

	cfg, err := loadConfig(path, envPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9100" {
		t.Fatalf("env file should override listen, got %q", cfg.Listen)
	}
	if cfg.Store.Backend != backendMemory {
		t.Fatalf("unexpected backend %q", cfg.Store.Backend)
	}
	if cfg.Pipeline.Concurrency != 4 {
		t.Fatalf("env should override concurrency, got %d", cfg.Pipeline.Concurrency)
	}
	if cfg.Pipeline.PollInterval != 5*time.Second {
		t.Fatalf("unexpected poll interval %v", cfg.Pipeline.PollInterval)
	}
	if cfg.Pipeline.BatchSize != 50 {
		t.Fatalf("unset values should keep defaults, got batch size %d", cfg.Pipeline.BatchSize)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("ANNOUNCE_STORE", "cassandra")

	_, err := loadConfig("", "")
	if err == nil || !strings.Contains(err.Error(), "unsupported store backend") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestLoadConfigMissingEnvFileIsFine(t *testing.T) {
	if _, err := loadConfig("", filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatal(err)
	}
}

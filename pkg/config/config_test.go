package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Requests.Window != 1440 {
		t.Errorf("Requests.Window = %d, want 1440", cfg.Requests.Window)
	}
	if cfg.Postgres.Enabled || cfg.Kafka.Enabled || cfg.RateLimit.Enabled {
		t.Error("external integrations enabled by default")
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Metrics.Port = %d, want 9090", cfg.Metrics.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	data := `
server:
  port: 9999
  readTimeout: 5s
engine:
  stopWords: [the, in, on]
requests:
  window: 100
logging:
  level: debug
  format: text
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if diff := cmp.Diff([]string{"the", "in", "on"}, cfg.Engine.StopWords); diff != "" {
		t.Errorf("StopWords mismatch (-want +got):\n%s", diff)
	}
	if cfg.Requests.Window != 100 {
		t.Errorf("Requests.Window = %d, want 100", cfg.Requests.Window)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want debug/text", cfg.Logging)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file succeeded, want error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SC_SERVER_PORT", "7070")
	t.Setenv("SC_STOP_WORDS", "and or not")
	t.Setenv("SC_REQUESTS_WINDOW", "50")
	t.Setenv("SC_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SC_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if diff := cmp.Diff([]string{"and", "or", "not"}, cfg.Engine.StopWords); diff != "" {
		t.Errorf("StopWords mismatch (-want +got):\n%s", diff)
	}
	if cfg.Requests.Window != 50 {
		t.Errorf("Requests.Window = %d, want 50", cfg.Requests.Window)
	}
	if !cfg.Kafka.Enabled {
		t.Error("setting SC_KAFKA_BROKERS did not enable kafka")
	}
	if diff := cmp.Diff([]string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers); diff != "" {
		t.Errorf("Kafka.Brokers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5433, Database: "corpus",
		User: "svc", Password: "secret", SSLMode: "require",
	}
	want := "host=db port=5433 user=svc password=secret dbname=corpus sslmode=require"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

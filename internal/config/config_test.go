package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.HTTP.Port)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("rate limit defaults = %+v", cfg.RateLimit)
	}
	if cfg.Database.URL == "" {
		t.Error("database URL must be derived when unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "10")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.HTTP.Port)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Errorf("rate limit requests = %d, want 5", cfg.RateLimit.Requests)
	}
	if cfg.Context.RequestTimeout != 10*time.Second {
		t.Errorf("request timeout = %s, want 10s", cfg.Context.RequestTimeout)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/app?sslmode=disable" {
		t.Errorf("database URL = %s", cfg.Database.URL)
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{HTTP: HTTPConfig{Host: "127.0.0.1", Port: "8081"}}
	if got := cfg.Address(); got != "127.0.0.1:8081" {
		t.Errorf("address = %s", got)
	}
}

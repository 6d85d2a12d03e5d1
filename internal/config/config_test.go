package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SESSION_COOKIE_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Session.CookieName != "session_id" {
		t.Errorf("cookie name = %q, want session_id", cfg.Session.CookieName)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.Database.URL == "" {
		t.Error("database URL should be assembled from parts when unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SESSION_SECURE_COOKIE", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/todo?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Address(); got != "127.0.0.1:9090" {
		t.Errorf("Address() = %q, want 127.0.0.1:9090", got)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("session ttl = %v, want 1h", cfg.Session.TTL)
	}
	if !cfg.Session.SecureCookie {
		t.Error("secure cookie flag not applied")
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/todo?sslmode=disable" {
		t.Errorf("database URL = %q", cfg.Database.URL)
	}
}

func TestGetDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Context.RequestTimeout != 7*time.Second {
		t.Errorf("request timeout = %v, want 7s", cfg.Context.RequestTimeout)
	}
}

package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":3000")
	}
	if cfg.SessionStore != SessionStoreSQLite {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, SessionStoreSQLite)
	}
	if cfg.DependencyPlaceholder {
		t.Error("DependencyPlaceholder should default to false")
	}
	if cfg.DashboardRoute != "/dashboard" {
		t.Errorf("DashboardRoute = %q, want %q", cfg.DashboardRoute, "/dashboard")
	}
}

func TestLoadFrom(t *testing.T) {
	env := map[string]string{
		"HTTP_ADDR":                      ":4000",
		"BACKEND_URL":                    "https://pm.example.com/api",
		"BACKEND_TIMEOUT":                "3s",
		"BACKEND_DEPENDENCY_PLACEHOLDER": "true",
		"SESSION_STORE":                  "redis",
		"REDIS_ADDR":                     "redis:6379",
		"SESSION_TTL":                    "1h",
		"FORM_IDLE_TIMEOUT":              "5m",
	}
	cfg := loadFrom(func(k string) string { return env[k] })

	if cfg.HTTPAddr != ":4000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":4000")
	}
	if cfg.BackendURL != "https://pm.example.com/api" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("BackendTimeout = %v, want 3s", cfg.BackendTimeout)
	}
	if !cfg.DependencyPlaceholder {
		t.Error("DependencyPlaceholder = false, want true")
	}
	if cfg.SessionStore != SessionStoreRedis {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, SessionStoreRedis)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if cfg.FormIdleTimeout != 5*time.Minute {
		t.Errorf("FormIdleTimeout = %v, want 5m", cfg.FormIdleTimeout)
	}
}

func TestLoadFrom_InvalidValuesKeepDefaults(t *testing.T) {
	env := map[string]string{
		"BACKEND_TIMEOUT":                "soon",
		"BACKEND_DEPENDENCY_PLACEHOLDER": "maybe",
		"SESSION_STORE":                  "memcached",
		"SESSION_TTL":                    "-5m",
	}
	cfg := loadFrom(func(k string) string { return env[k] })
	def := Default()

	if cfg.BackendTimeout != def.BackendTimeout {
		t.Errorf("BackendTimeout = %v, want %v", cfg.BackendTimeout, def.BackendTimeout)
	}
	if cfg.DependencyPlaceholder != def.DependencyPlaceholder {
		t.Errorf("DependencyPlaceholder = %v, want %v", cfg.DependencyPlaceholder, def.DependencyPlaceholder)
	}
	if cfg.SessionStore != def.SessionStore {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, def.SessionStore)
	}
	if cfg.SessionTTL != def.SessionTTL {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, def.SessionTTL)
	}
}

// Package config loads service configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Session store backends.
const (
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"
)

// Config holds the configuration for every module of the service.
type Config struct {
	// HTTPAddr is the listen address of the HTTP API.
	HTTPAddr string

	// BackendURL is the base URL of the project-management REST API.
	BackendURL string

	// BackendTimeout bounds every backend call.
	BackendTimeout time.Duration

	// DependencyPlaceholder sends [""] instead of [] when no dependency is selected.
	DependencyPlaceholder bool

	// SessionStore selects the session backend: "sqlite" or "redis".
	SessionStore string

	// SessionDBPath is the SQLite file used by the sqlite session store.
	SessionDBPath string

	// RedisAddr is the Redis server used by the redis session store.
	RedisAddr string

	// SessionTTL applies to sessions whose token carries no expiry.
	SessionTTL time.Duration

	// DashboardRoute is where a successful registration navigates.
	DashboardRoute string

	// FormIdleTimeout is how long an unused form stays open before it is discarded.
	FormIdleTimeout time.Duration
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		HTTPAddr:              ":3000",
		BackendURL:            "http://localhost:8080/api",
		BackendTimeout:        10 * time.Second,
		DependencyPlaceholder: false,
		SessionStore:          SessionStoreSQLite,
		SessionDBPath:         "sessions.db",
		RedisAddr:             "localhost:6379",
		SessionTTL:            24 * time.Hour,
		DashboardRoute:        "/dashboard",
		FormIdleTimeout:       30 * time.Minute,
	}
}

// Load returns Default overridden by environment variables.
func Load() Config {
	return loadFrom(os.Getenv)
}

func loadFrom(getenv func(string) string) Config {
	cfg := Default()

	if v := getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := getenv("BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := getenv("BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BackendTimeout = d
		} else {
			log.Printf("[config] Ignoring invalid BACKEND_TIMEOUT %q", v)
		}
	}
	if v := getenv("BACKEND_DEPENDENCY_PLACEHOLDER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DependencyPlaceholder = b
		} else {
			log.Printf("[config] Ignoring invalid BACKEND_DEPENDENCY_PLACEHOLDER %q", v)
		}
	}
	if v := getenv("SESSION_STORE"); v != "" {
		switch v {
		case SessionStoreSQLite, SessionStoreRedis:
			cfg.SessionStore = v
		default:
			log.Printf("[config] Unknown SESSION_STORE %q, using %s", v, cfg.SessionStore)
		}
	}
	if v := getenv("SESSION_DB_PATH"); v != "" {
		cfg.SessionDBPath = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		} else {
			log.Printf("[config] Ignoring invalid SESSION_TTL %q", v)
		}
	}
	if v := getenv("DASHBOARD_ROUTE"); v != "" {
		cfg.DashboardRoute = v
	}
	if v := getenv("FORM_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.FormIdleTimeout = d
		} else {
			log.Printf("[config] Ignoring invalid FORM_IDLE_TIMEOUT %q", v)
		}
	}

	return cfg
}

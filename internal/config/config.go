// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Sheet    SheetConfig
	Cache    CacheConfig
	App      AppConfig
	Social   SocialConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SheetConfig describes where the published spreadsheet lives and how hard
// to try when fetching it.
type SheetConfig struct {
	// CSVURL is the "publish to web" CSV export URL (required)
	CSVURL string `env:"SHEET_CSV_URL" envAlt:"CSV_URL" required:"true"`

	// MaxRetries is the number of fetch attempts before giving up (default: 3)
	MaxRetries int `env:"SHEET_MAX_RETRIES" default:"3"`

	// RetryDelay is the backoff unit; attempt N waits RetryDelay*N (default: 1s)
	RetryDelay time.Duration `env:"SHEET_RETRY_DELAY" default:"1s"`

	// FetchTimeout bounds a single HTTP attempt (default: 30s)
	FetchTimeout time.Duration `env:"SHEET_FETCH_TIMEOUT" default:"30s"`

	// MaxBodyBytes caps the CSV download size (default: 10MB)
	MaxBodyBytes int64 `env:"SHEET_MAX_BODY_BYTES" default:"10485760"`
}

// CacheConfig holds dataset cache settings.
type CacheConfig struct {
	// Enabled turns the dataset cache on or off (default: true)
	Enabled bool `env:"CACHE_ENABLED" default:"true"`

	// TTL is how long a cached dataset stays valid (default: 5m)
	TTL time.Duration `env:"CACHE_TTL" default:"5m"`

	// Backend selects the key/value store: memory, sqlite or postgres (default: memory)
	Backend string `env:"CACHE_BACKEND" default:"memory"`

	// KeyPrefix namespaces the two cache keys (default: directory)
	KeyPrefix string `env:"CACHE_KEY_PREFIX" default:"directory"`

	// SQLitePath is the database file for the sqlite backend (default: directory-cache.db)
	SQLitePath string `env:"CACHE_SQLITE_PATH" default:"directory-cache.db"`

	// DatabaseURL is the PostgreSQL connection string for the postgres backend
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// DBMaxConns is the maximum number of pooled connections (default: 4)
	DBMaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// DBMaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// QueryCacheSize is the number of memoised filter/sort results (default: 128)
	QueryCacheSize int `env:"QUERY_CACHE_SIZE" default:"128"`
}

// AppConfig holds presentation and interaction settings.
type AppConfig struct {
	// PageSize is the number of cards revealed per page (default: 12)
	PageSize int `env:"PAGE_SIZE" default:"12"`

	// SearchDebounce is the quiet period before a search runs (default: 300ms)
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" default:"300ms"`

	// AutoRefreshInterval reloads the sheet periodically; 0 disables (default: 0s)
	AutoRefreshInterval time.Duration `env:"AUTO_REFRESH_INTERVAL" default:"0s"`
}

// SocialConfig points at an optional YAML file overriding the social platforms.
type SocialConfig struct {
	// PlatformsFile is a YAML list of {column, base_url} entries
	PlatformsFile string `env:"SOCIAL_PLATFORMS_FILE"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// Burst is the number of requests allowed at once per IP (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the admin endpoints (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

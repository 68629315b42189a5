package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Persistence API
	APIBaseURL string // ex: https://api.islandhop.example/api
	APIToken   string // optional bearer token

	// Navigation targets
	SignInURL     string // sign-in page, reason and next are appended
	ListingPath   string // vendor services listing page
	DashboardPath string // vendor dashboard
	HotelPath     string // hotel management area

	CatalogFile     string // optional YAML service-type catalog, empty = built-in
	RequireVerified bool   // refuse unverified vendors in the edit workflow

	SessionTTL            time.Duration // idle edit-session lifetime (default: 2h)
	GCInterval            time.Duration // interval between session sweeps (default: 10m)
	IslandsReloadInterval time.Duration // interval to refresh islands (default: 1h)

	// Redis (optional, empty address = memory only)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts   []string // optional, restrict vendor routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy     bool     // true => trust proxy headers (client IP, identity headers)
	TrustedProxies []string // peers allowed to forward identity headers, empty trusts none

	SubmitBurst  int // per-IP submit burst
	SubmitPerMin int // per-IP submits refilled per minute
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() *Config {
	loadDotEnv(getenv("ISLANDHOP_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("ISLANDHOP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("ISLANDHOP_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("ISLANDHOP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("ISLANDHOP_PRETTY_LOG", true),

		// Persistence API
		APIBaseURL: requireURL("ISLANDHOP_API_BASE_URL"),
		APIToken:   getenv("ISLANDHOP_API_TOKEN", ""),

		// Navigation
		SignInURL:     getenv("ISLANDHOP_SIGNIN_URL", "/signin"),
		ListingPath:   getenv("ISLANDHOP_LISTING_PATH", "/vendor/services"),
		DashboardPath: getenv("ISLANDHOP_DASHBOARD_PATH", "/vendor/dashboard"),
		HotelPath:     getenv("ISLANDHOP_HOTEL_PATH", "/vendor/hotels"),

		// Edit workflow
		CatalogFile:           getenv("ISLANDHOP_CATALOG_FILE", ""),
		RequireVerified:       mustBool("ISLANDHOP_REQUIRE_VERIFIED_VENDOR", false),
		SessionTTL:            mustDuration("ISLANDHOP_SESSION_TTL", 2*time.Hour),
		GCInterval:            mustDuration("ISLANDHOP_GC_INTERVAL", 10*time.Minute),
		IslandsReloadInterval: mustDuration("ISLANDHOP_ISLANDS_RELOAD_INTERVAL", time.Hour),

		// Redis settings
		RedisAddr:             getenv("ISLANDHOP_REDIS_ADDR", ""),
		RedisUser:             getenv("ISLANDHOP_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("ISLANDHOP_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("ISLANDHOP_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("ISLANDHOP_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("ISLANDHOP_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   splitAndTrim(getenv("ISLANDHOP_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("ISLANDHOP_TRUST_PROXY", true),
		TrustedProxies: splitAndTrim(getenv("ISLANDHOP_TRUSTED_PROXIES", "127.0.0.1,::1")),

		SubmitBurst:  getenvInt("ISLANDHOP_SUBMIT_BURST", 10),
		SubmitPerMin: getenvInt("ISLANDHOP_SUBMIT_PER_MIN", 30),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: ISLANDHOP_REDIS_PASSWORD is required when ISLANDHOP_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.SessionTTL <= 0 || cfg.GCInterval <= 0 || cfg.IslandsReloadInterval <= 0 {
		panic("❌ FATAL: ISLANDHOP_SESSION_TTL, ISLANDHOP_GC_INTERVAL and ISLANDHOP_ISLANDS_RELOAD_INTERVAL must be positive")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.APIToken != "" {
			cfgCopy.APIToken = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is fine.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("❌ FATAL: Cannot load env file %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireURL(key string) string {
	v := strings.TrimRight(requireEnv(key), "/")
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		panic(fmt.Sprintf("❌ FATAL: %s must be an absolute http(s) URL, got %q", key, v))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

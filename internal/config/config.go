package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store    string // "redis" | "memory"
	Timezone string // IANA zone timestamps are rendered in (ex: Asia/Tokyo)
	IDMode   string // "uuid-v7" | "uuid-v4" | "url"

	ImportFile     string        // path to a bookmark import yaml (optional, empty = import disabled)
	ImportInterval time.Duration // interval between imports (default: 1h)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // dial timeout (ex: 5s)
	RedisRT               time.Duration // read timeout (ex: 3s)
	RedisWT               time.Duration // write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // connection pool size
	RedisConnectTimeout   time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
	RedisScanCount        int           // COUNT hint for SCAN when listing

	AllowedHosts []string // optional, restrict ops endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	CORSOrigins  []string // allowed CORS origins on the ops server
}

// LoadDotEnv loads .env files into the environment when present.
// Variables already set are not overridden.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("[WARN] failed to load %s: %v", f, err)
		}
	}
}

// Load reads the configuration from the environment. It panics on missing
// or invalid required settings.
func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HATEBU_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HATEBU_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HATEBU_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HATEBU_PRETTY_LOG", true),

		// Bookmarks
		Store:    strings.ToLower(getenv("HATEBU_STORE", StoreRedis)),
		Timezone: getenv("HATEBU_TIMEZONE", "Asia/Tokyo"),
		IDMode:   getenv("HATEBU_ID_MODE", "uuid-v7"),

		// Import
		ImportFile:     getenv("HATEBU_IMPORT_FILE", ""),
		ImportInterval: mustDuration("HATEBU_IMPORT_INTERVAL", time.Hour),

		// Redis settings
		RedisUser:             getenv("HATEBU_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("HATEBU_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("HATEBU_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("HATEBU_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
		RedisScanCount:        getenvInt("REDIS_SCAN_COUNT", 100),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("HATEBU_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("HATEBU_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("HATEBU_TRUST_PROXY", true),
		CORSOrigins:  splitAndTrim(getenv("HATEBU_CORS_ORIGINS", "*")),
	}

	switch cfg.Store {
	case StoreRedis:
		cfg.RedisAddr = requireEnv("HATEBU_REDIS_ADDR")
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: HATEBU_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, cfg.Store))
	}

	if cfg.Store == StoreRedis && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: HATEBU_REDIS_PASSWORD is required when HATEBU_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.ImportInterval <= 0 {
		panic(fmt.Sprintf("❌ FATAL: HATEBU_IMPORT_INTERVAL must be > 0, got %v", cfg.ImportInterval))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
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

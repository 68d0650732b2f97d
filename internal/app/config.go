package app

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

// Session store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// MasterKeyEnv holds the session sealing master key when no key file is set.
const MasterKeyEnv = "DEVHUB_MASTER_KEY"

type Config struct {
	APIURL      string        // Backend base URL (default: http://localhost:8080)
	HTTPTimeout time.Duration // Per-attempt HTTP timeout (default: 10s)

	SessionStore  string // Session driver: memory, sqlite, redis (default: sqlite)
	SessionFile   string // SQLite session database (default: <user config dir>/devhub/session.db)
	RedisAddr     string // Redis address for the redis driver (default: localhost:6379)
	RedisPrefix   string // Redis key prefix (default: devhub)
	SealSession   bool   // Encrypt stored session values (default: false)
	MasterKeyPath string // Optional: path to the sealing master key file

	TranslationsFile string // Optional: extra error translations (.yaml, .yml, .json, .jsonc)
	RefreshDedupe    bool   // Share one refresh call between concurrent 401s (default: true)

	RateLimit httpx.RateLimitConfig // Client-side throttle, see httpx.ClientLimit

	Env       string // Environment (dev, staging, prod) (default: prod)
	LogLevel  string // Log level (debug, info, warn, error) (default: warn)
	LogFormat string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		APIURL:           getEnvOrDefault("DEVHUB_API_URL", "http://localhost:8080"),
		HTTPTimeout:      getEnvDurationOrDefault("DEVHUB_HTTP_TIMEOUT", httpx.DefaultTimeout),
		SessionStore:     getEnvOrDefault("DEVHUB_SESSION_STORE", StoreSQLite),
		SessionFile:      getEnvOrDefault("DEVHUB_SESSION_FILE", defaultSessionFile()),
		RedisAddr:        getEnvOrDefault("DEVHUB_REDIS_ADDR", "localhost:6379"),
		RedisPrefix:      getEnvOrDefault("DEVHUB_REDIS_PREFIX", "devhub"),
		SealSession:      getEnvBoolOrDefault("DEVHUB_SEAL_SESSION", false),
		MasterKeyPath:    os.Getenv("DEVHUB_MASTER_KEY_PATH"),
		TranslationsFile: os.Getenv("DEVHUB_TRANSLATIONS_FILE"),
		RefreshDedupe:    getEnvBoolOrDefault("DEVHUB_REFRESH_DEDUPE", true),
		RateLimit:        httpx.ParseRateLimitFromEnv("CLIENT", httpx.ClientLimit),
		Env:              getEnvOrDefault("ENV", "prod"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// Validate reports configuration that would fail later in a less obvious way.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", c.APIURL)
	}

	switch c.SessionStore {
	case StoreMemory, StoreRedis:
	case StoreSQLite:
		if c.SessionFile == "" {
			return fmt.Errorf("session file is required for the %s store", StoreSQLite)
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}

	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "devhub-session.db"
	}
	return filepath.Join(dir, "devhub", "session.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "5s", "1m")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

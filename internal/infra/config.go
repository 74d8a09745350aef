package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers the service can run on.
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	StoreDriver      string
	SQLitePath       string
	DatabaseURL      string
	RedisAddr        string
	LegacyImportPath string

	GeoIPDBPath     string
	DefaultCurrency string
	AllowedOrigins  []string

	// Page targets handlers hand back on redirects; the served pages are
	// static files outside this service.
	LoginURL               string
	IndexURL               string
	VerificationURL        string
	VerificationSuccessURL string
	DonationSuccessURL     string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		StoreDriver:      getEnv("STORE_DRIVER", StoreDriverSQLite),
		SQLitePath:       getEnv("SQLITE_PATH", "impactseed.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		LegacyImportPath: os.Getenv("LEGACY_IMPORT_PATH"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		DefaultCurrency:  getEnv("DEFAULT_CURRENCY", "USD"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		LoginURL:               getEnv("LOGIN_URL", "/login.html"),
		IndexURL:               getEnv("INDEX_URL", "/index.html"),
		VerificationURL:        getEnv("VERIFICATION_URL", "/Verification.html"),
		VerificationSuccessURL: getEnv("VERIFICATION_SUCCESS_URL", "/success.html"),
		DonationSuccessURL:     getEnv("DONATION_SUCCESS_URL", "/DonetionSuccesfull.html"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory, StoreDriverSQLite, StoreDriverRedis:
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

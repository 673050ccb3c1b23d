package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Backend API
	BackendAPIURL string

	// Backend credentials. A forwarded user bearer wins over these.
	BackendToken     string
	BackendTokenFile string
	ServiceJWTSecret string
	ServiceJWTTTL    time.Duration

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Spend batches
	BatchConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string // empty disables trace export

	// Admin routes (bcrypt hash of X-Admin-Key; empty disables them)
	AdminKeyHash string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendAPIURL: getEnv("BACKEND_API_URL", "http://localhost:5000/api"),

		BackendToken:     getEnv("BACKEND_TOKEN", ""),
		BackendTokenFile: getEnv("BACKEND_TOKEN_FILE", ""),
		ServiceJWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
		ServiceJWTTTL:    getEnvDuration("SERVICE_JWT_TTL", 15*time.Minute),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 8),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		AdminKeyHash: getEnv("ADMIN_KEY_HASH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

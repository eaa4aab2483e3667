package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/harshalself/authgate/pkg/jwtx"
)

type Config struct {
	Issuer    string // Required: issuer claim for tokens
	JWTSecret string // Required: HMAC secret for token signing (min 32 bytes)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 7 days)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	RedisURL             string        // Optional: Redis URL for shared rate-limit counters (default: in-process counters)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "authgate"),
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		AccessTokenTTL: getEnvDurationOrDefault(
			"AUTH_ACCESS_TOKEN_TTL",
			jwtx.DefaultAccessTokenTTL,
		),
		RefreshTokenTTL: getEnvDurationOrDefault(
			"AUTH_REFRESH_TOKEN_TTL",
			jwtx.DefaultRefreshTokenTTL,
		),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		RedisURL:             os.Getenv("AUTH_REDIS_URL"), // Optional
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// Validate rejects configurations the service must not start with. A missing
// or short signing secret is fatal at startup rather than a 500 at runtime.
func (cfg Config) Validate() error {
	if cfg.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < jwtx.MinSecretLen {
		return fmt.Errorf(
			"AUTH_JWT_SECRET must be at least %d bytes, got %d",
			jwtx.MinSecretLen, len(cfg.JWTSecret),
		)
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.AccessTokenTTL >= cfg.RefreshTokenTTL {
		return errors.New("access token TTL must be shorter than refresh token TTL")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

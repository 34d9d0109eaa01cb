// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the API server needs at start-up.
type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	LogLevel          string
	LogFormat         string
	DirectoryCacheTTL time.Duration
	TierPolicyFile    string
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("APP_PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnvWithDefault("LOG_FORMAT", "text")),
		TierPolicyFile: os.Getenv("TIER_POLICY_FILE"),
	}

	ttl, err := time.ParseDuration(getEnvWithDefault("DIRECTORY_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIRECTORY_CACHE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid DIRECTORY_CACHE_TTL: must not be negative")
	}
	cfg.DirectoryCacheTTL = ttl

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected text or json", cfg.LogFormat)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

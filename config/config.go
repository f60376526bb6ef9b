// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	Address  string
	Env      string
	LogLevel string
	LogDir   string

	// CMSAPIKey authenticates NADAC datastore queries; optional.
	CMSAPIKey string

	// FormatterURL and FormatterAPIKey configure the external safety text
	// formatting service. An empty URL makes the safety pipeline fall back
	// to raw label text for every request.
	FormatterURL    string
	FormatterAPIKey string

	CacheTTL        time.Duration
	UpstreamTimeout time.Duration

	MaxRequestBody int64 // Maximum request body size in bytes
	MaxHeaderSize  int64 // Maximum header size in bytes
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8000"),
		Address:         getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:             getEnvWithDefault("ENV", "dev"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:          getEnvWithDefault("LOG_DIR", ""),
		CMSAPIKey:       getEnvWithDefault("CMS_API_KEY", ""),
		FormatterURL:    getEnvWithDefault("FORMATTER_URL", ""),
		FormatterAPIKey: getEnvWithDefault("FORMATTER_API_KEY", ""),
		CacheTTL:        getDurationEnvWithDefault("CACHE_TTL_SECONDS", 300*time.Second),
		UpstreamTimeout: getDurationEnvWithDefault("UPSTREAM_TIMEOUT_SECONDS", 10*time.Second),
		MaxRequestBody:  getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		MaxHeaderSize:   getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),  // 1MB default
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}
	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("invalid CACHE_TTL_SECONDS: must be positive")
	}
	if cfg.UpstreamTimeout <= 0 {
		return fmt.Errorf("invalid UPSTREAM_TIMEOUT_SECONDS: must be positive")
	}
	if cfg.MaxRequestBody <= 0 {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: must be positive")
	}
	if cfg.MaxHeaderSize <= 0 {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: must be positive")
	}
	return nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("must be numeric")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func validateAddress(address string) error {
	if address == "localhost" {
		return nil
	}
	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("must be a valid IP address or localhost")
	}
	return nil
}

func validateEnv(env string) error {
	switch strings.ToLower(env) {
	case "dev", "staging", "production":
		return nil
	}
	return fmt.Errorf("must be one of dev, staging, production")
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt64EnvWithDefault(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getDurationEnvWithDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

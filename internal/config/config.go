package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// External APIs
	PageSpeedURL    string
	PageSpeedAPIKey string

	// Upstream call policy
	UpstreamTimeout   time.Duration
	UpstreamRateLimit float64
}

// NewConfig creates a new configuration from environment variables
func NewConfig() *Config {
	readTimeoutSec, _ := strconv.Atoi(getEnv("READ_TIMEOUT", "5"))
	writeTimeoutSec, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT", "10"))
	upstreamTimeoutSec, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT", "30"))
	rateLimit, _ := strconv.ParseFloat(getEnv("UPSTREAM_RATE_LIMIT", "5"), 64)

	return &Config{
		// Server
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(writeTimeoutSec) * time.Second,

		// External APIs. An empty key selects the provider's
		// unauthenticated, lower-quota mode.
		PageSpeedURL:    getEnv("PAGESPEED_API_URL", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"),
		PageSpeedAPIKey: getEnv("PAGESPEED_API_KEY", ""),

		// Upstream call policy
		UpstreamTimeout:   time.Duration(upstreamTimeoutSec) * time.Second,
		UpstreamRateLimit: rateLimit,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

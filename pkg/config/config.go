package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Gateway configuration
	Gateway GatewayConfig

	// API endpoint configuration
	API APIConfig

	// Reference cache configuration
	Reference ReferenceConfig

	// Recent items configuration
	Recent RecentConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// GatewayConfig holds HTTP server configuration
type GatewayConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// APIConfig holds the upstream API gateway configuration
type APIConfig struct {
	// Endpoint is the base URL of the REST API gateway
	Endpoint string
	// GrantTimeout bounds role grant and token refresh calls
	GrantTimeout time.Duration
	// ListTimeout bounds reference list calls
	ListTimeout time.Duration
}

// ReferenceConfig holds reference cache settings
type ReferenceConfig struct {
	// TTL after which cached reference data is eligible for re-fetch
	TTL time.Duration
	// SyncReload makes the post-grant reference reload block navigation.
	// Off in production; tests that need determinism turn it on.
	SyncReload bool
	// ReloadTimeout bounds the detached post-grant reload
	ReloadTimeout time.Duration
	// RefreshSchedule is an optional cron spec for background refreshes
	RefreshSchedule string
}

// RecentConfig holds recent-items settings
type RecentConfig struct {
	// MaxItems caps the most-recently-used list
	MaxItems int
	// RedisURL enables the redis-backed sink when non-empty
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Gateway:       loadGatewayConfig(),
		API:           loadAPIConfig(),
		Reference:     loadReferenceConfig(),
		Recent:        loadRecentConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadGatewayConfig loads server configuration from environment
func loadGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Host:            getEnv("CONSOLE_HOST", "0.0.0.0"),
		Port:            getEnv("CONSOLE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("CONSOLE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CONSOLE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("CONSOLE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CONSOLE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("CONSOLE_HEALTH_PORT", "9090"),
	}
}

// loadAPIConfig loads upstream API configuration from environment
func loadAPIConfig() APIConfig {
	return APIConfig{
		Endpoint:     getEnv("CONSOLE_API_ENDPOINT", ""),
		GrantTimeout: getEnvDuration("CONSOLE_API_GRANT_TIMEOUT", 10*time.Second),
		ListTimeout:  getEnvDuration("CONSOLE_API_LIST_TIMEOUT", 3*time.Second),
	}
}

// loadReferenceConfig loads reference cache configuration from environment
func loadReferenceConfig() ReferenceConfig {
	return ReferenceConfig{
		TTL:             getEnvDuration("CONSOLE_REFERENCE_TTL", 300*time.Second),
		SyncReload:      getEnvBool("CONSOLE_REFERENCE_SYNC_RELOAD", false),
		ReloadTimeout:   getEnvDuration("CONSOLE_REFERENCE_RELOAD_TIMEOUT", 30*time.Second),
		RefreshSchedule: getEnv("CONSOLE_REFERENCE_REFRESH_SCHEDULE", ""),
	}
}

// loadRecentConfig loads recent-items configuration from environment
func loadRecentConfig() RecentConfig {
	return RecentConfig{
		MaxItems:      getEnvInt("CONSOLE_RECENT_MAX_ITEMS", 15),
		RedisURL:      getEnv("CONSOLE_RECENT_REDIS_URL", ""),
		RedisPassword: getEnv("CONSOLE_RECENT_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("CONSOLE_RECENT_REDIS_DB", 0),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("CONSOLE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("CONSOLE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Gateway.Port == "" {
		return fmt.Errorf("gateway port is required")
	}
	if c.Gateway.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Gateway.Port == c.Gateway.HealthPort {
		return fmt.Errorf("gateway port and health port must be different")
	}

	if c.API.Endpoint == "" {
		return fmt.Errorf("API endpoint is required")
	}

	if c.Reference.TTL <= 0 {
		return fmt.Errorf("reference TTL must be positive")
	}

	if c.Recent.MaxItems <= 0 {
		return fmt.Errorf("recent max items must be positive")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

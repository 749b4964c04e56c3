package config

import (
	"os"
	"strconv"
	"time"

	"promptlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Stats     StatsConfig
	Data      DataConfig
	Sweep     SweepConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings. An empty URL is
// not an error: the app falls back to the in-memory run store.
type DatabaseConfig struct {
	URL     string
	User    string
	Name    string
	Host    string
	Port    int
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	APIPort string
	UIPort  string
	GinMode string
}

// StatsConfig holds engine defaults applied when a request leaves an
// option unset
type StatsConfig struct {
	ExactTails      bool
	DefaultAlpha    float64
	DefaultLevel    float64
	DefaultTestType string
}

// DataConfig holds sample ingestion settings
type DataConfig struct {
	SampleFile string
	SheetName  string
}

// SweepConfig holds batch evaluation settings
type SweepConfig struct {
	Workers int
	Timeout time.Duration
}

// ProfilingConfig holds pprof server settings
type ProfilingConfig struct {
	Enabled bool
	Port    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:  loadDatabaseConfig(),
		Server:    loadServerConfig(),
		Stats:     loadStatsConfig(),
		Data:      loadDataConfig(),
		Sweep:     loadSweepConfig(),
		Profiling: loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:     getEnvOrDefault("DATABASE_URL", ""),
		User:    getEnvOrDefault("DB_USER", ""),
		Name:    getEnvOrDefault("DB_NAME", ""),
		Host:    getEnvOrDefault("DB_HOST", ""),
		Port:    getEnvIntOrDefault("DB_PORT", 5432),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		APIPort: getEnvOrDefault("PORT", "8080"),
		UIPort:  getEnvOrDefault("UI_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadStatsConfig() StatsConfig {
	return StatsConfig{
		ExactTails:      getEnvBoolOrDefault("STATS_EXACT_TAILS", false),
		DefaultAlpha:    getEnvFloatOrDefault("STATS_ALPHA", 0.05),
		DefaultLevel:    getEnvFloatOrDefault("STATS_CONFIDENCE_LEVEL", 0.95),
		DefaultTestType: getEnvOrDefault("STATS_TEST_TYPE", "welch_ttest"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		SampleFile: getEnvOrDefault("SAMPLE_FILE", ""),
		SheetName:  getEnvOrDefault("SAMPLE_SHEET", "Sheet1"),
	}
}

func loadSweepConfig() SweepConfig {
	return SweepConfig{
		Workers: getEnvIntOrDefault("SWEEP_WORKERS", 4),
		Timeout: getEnvDurationOrDefault("SWEEP_TIMEOUT", 30*time.Second),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: getEnvBoolOrDefault("PROFILING_ENABLED", false),
		Port:    getEnvOrDefault("PROFILING_PORT", "6060"),
	}
}

func validateConfig(config *Config) error {
	if config.Stats.DefaultAlpha <= 0 || config.Stats.DefaultAlpha >= 1 {
		return errors.ConfigInvalid("STATS_ALPHA must be in (0,1)")
	}
	if config.Stats.DefaultLevel <= 0 || config.Stats.DefaultLevel >= 1 {
		return errors.ConfigInvalid("STATS_CONFIDENCE_LEVEL must be in (0,1)")
	}
	if config.Sweep.Workers < 1 {
		return errors.ConfigInvalid("SWEEP_WORKERS must be at least 1")
	}
	if config.Sweep.Timeout <= 0 {
		return errors.ConfigInvalid("SWEEP_TIMEOUT must be positive")
	}
	return nil
}

// HasDatabase reports whether a postgres-backed run store is configured
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

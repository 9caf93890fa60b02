package config

import (
	"os"
	"strconv"
	"time"

	"goab/domain/stats"
	"goab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig `validate:"required"`
	Batch    BatchConfig
	Paths    PathConfig
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port            string `validate:"required"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds run archive connection settings. An empty URL
// means the archive is disabled and runs are not persisted.
type DatabaseConfig struct {
	URL     string
	Host    string
	Port    int
	SSLMode string
}

// AnalysisConfig holds the statistical defaults applied when a
// request leaves them unset
type AnalysisConfig struct {
	Alpha       float64 `validate:"required"`
	Correction  string
	GroupColumn string
	RateColumn  string
	TotalColumn string
}

// BatchConfig holds bounded-parallelism settings for batch runs
type BatchConfig struct {
	MaxConcurrent int64
	ItemTimeout   time.Duration
}

// PathConfig holds file system paths
type PathConfig struct {
	InputFile    string
	ScenarioFile string
	ReportDir    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Analysis: loadAnalysisConfig(),
		Batch:    loadBatchConfig(),
		Paths:    loadPathConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ReadTimeout:     getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:     getEnvOrDefault("DATABASE_URL", ""),
		Host:    getEnvOrDefault("DB_HOST", ""),
		Port:    getEnvIntOrDefault("DB_PORT", 5432),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Alpha:       getEnvFloatOrDefault("ALPHA", 0.05),
		Correction:  getEnvOrDefault("CORRECTION", "none"),
		GroupColumn: getEnvOrDefault("GROUP_COLUMN", "group"),
		RateColumn:  getEnvOrDefault("RATE_COLUMN", "positive_rate"),
		TotalColumn: getEnvOrDefault("TOTAL_COLUMN", "total_sends"),
	}
}

func loadBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrent: int64(getEnvIntOrDefault("BATCH_CONCURRENCY", 4)),
		ItemTimeout:   getEnvDurationOrDefault("BATCH_ITEM_TIMEOUT", 60*time.Second),
	}
}

func loadPathConfig() PathConfig {
	return PathConfig{
		InputFile:    getEnvOrDefault("INPUT_FILE", ""),
		ScenarioFile: getEnvOrDefault("SCENARIO_FILE", ""),
		ReportDir:    getEnvOrDefault("REPORT_DIR", ""),
	}
}

func validateConfig(config *Config) error {
	if err := stats.ValidateAlpha(config.Analysis.Alpha); err != nil {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if _, err := stats.ParseCorrection(config.Analysis.Correction); err != nil {
		return errors.ConfigInvalid("CORRECTION must be none, bonferroni or holm")
	}
	if config.Batch.MaxConcurrent < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// HasArchive reports whether a run archive is configured
func (c *Config) HasArchive() bool {
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

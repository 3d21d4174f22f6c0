package config

import (
	"os"
	"strconv"

	"gostreams/domain/core"
	"gostreams/internal/errors"
)

// DefaultMasterSeed is used when MASTER_SEED is unset.
const DefaultMasterSeed uint32 = 234

// Config represents the complete application configuration
type Config struct {
	Streams  StreamsConfig
	Database DatabaseConfig
	Server   ServerConfig
	Export   ExportConfig
	LogLevel string
}

// StreamsConfig holds registry settings
type StreamsConfig struct {
	MasterSeed uint32
}

// DatabaseConfig holds checkpoint storage settings. An empty URL selects
// the in-memory checkpoint store.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port string
}

// ExportConfig holds sample export settings
type ExportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	streamsConfig, err := loadStreamsConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load streams configuration")
	}

	config := &Config{
		Streams:  *streamsConfig,
		Database: DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Server:   ServerConfig{Port: getEnvOrDefault("PORT", "8080")},
		Export:   ExportConfig{Dir: getEnvOrDefault("EXPORT_DIR", ".")},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadStreamsConfig() (*StreamsConfig, error) {
	raw := os.Getenv("MASTER_SEED")
	if raw == "" {
		return &StreamsConfig{MasterSeed: DefaultMasterSeed}, nil
	}
	seed, err := core.ParseSeed(raw)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeConfigInvalid, Message: "MASTER_SEED is invalid", Cause: err}
	}
	return &StreamsConfig{MasterSeed: seed}, nil
}

func validateConfig(config *Config) error {
	port, err := strconv.Atoi(config.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid("PORT must be a TCP port number")
	}
	if config.Export.Dir == "" {
		return errors.ConfigInvalid("export directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

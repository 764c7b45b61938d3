package config

import (
	"os"
	"strconv"
	"time"

	"tablekit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Database DatabaseConfig
	Upload   UploadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AIConfig holds settings for the optional narrative-insight collaborator.
// An empty OpenAIKey is valid: insights degrade to the unavailable payload.
type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Enabled reports whether the insight collaborator can be invoked
func (c AIConfig) Enabled() bool {
	return c.OpenAIKey != ""
}

// DatabaseConfig holds optional persistence settings. An empty URL disables
// the postgres adapter entirely.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether dataset persistence is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// UploadConfig holds file upload limits
type UploadConfig struct {
	MaxBytes int64
	TempDir  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		AI: AIConfig{
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel: getEnvOrDefault("LLM_MODEL", "gpt-4o"),
			Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 2000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 1.0),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Upload: UploadConfig{
			MaxBytes: getEnvInt64OrDefault("UPLOAD_MAX_BYTES", 50*1024*1024),
			TempDir:  getEnvOrDefault("UPLOAD_TEMP_DIR", os.TempDir()),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("upload size limit must be positive")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
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

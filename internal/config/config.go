package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// app config, loaded once from environment variables
type Config struct {
	Port string

	// BaseURL is the public origin candidate links point at.
	BaseURL string

	// SendExpiryDays is the window a candidate has to start after the
	// invitation goes out. Single source of truth for the link expiry.
	SendExpiryDays int

	// SweepSchedule is the cron spec for the expiry sweep.
	SweepSchedule string

	ArtifactDir string
	LinkSecret  string
	Provider    string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		BaseURL:        getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		SendExpiryDays: getEnvIntOrDefault("SEND_EXPIRY_DAYS", 7),
		SweepSchedule:  getEnvOrDefault("EXPIRY_SWEEP_SCHEDULE", "*/5 * * * *"),
		ArtifactDir:    getEnvOrDefault("ARTIFACT_DIR", "./artifacts"),
		LinkSecret:     os.Getenv("LINK_TOKEN_SECRET"),
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SendExpiry returns the start window as a duration.
func (c *Config) SendExpiry() time.Duration {
	return time.Duration(c.SendExpiryDays) * 24 * time.Hour
}

func validateConfig(config *Config) error {
	if config.SendExpiryDays <= 0 {
		return fmt.Errorf("SEND_EXPIRY_DAYS must be positive, got %d", config.SendExpiryDays)
	}
	if config.LinkSecret == "" {
		return errors.New("LINK_TOKEN_SECRET environment variable is required")
	}
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
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
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

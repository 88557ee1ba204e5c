package config

import (
	"errors"
	"os"
	"strconv"
)

// service config: oracle provider plus the infra endpoints the session
// engine depends on
type Config struct {
	Provider string

	RedisAddr     string
	MongoURI      string
	MemoryTTLDays int
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:      getEnvOrDefault("AI_PROVIDER", "gemini"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MemoryTTLDays: getEnvIntOrDefault("MEMORY_TTL_DAYS", 7),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	// Gemini validation is handled by gemini.NewConfig()
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

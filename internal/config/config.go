package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Diary encryption key, base64-encoded 32 bytes. Required: a missing
	// key is a startup error, never silently generated, so previously
	// encrypted entries stay readable across restarts.
	DiaryKey string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "hisab"),
		DBPassword: getEnv("DB_PASSWORD", "hisab"),
		DBName:     getEnv("DB_NAME", "hisab"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		DiaryKey: os.Getenv("DIARY_KEY"),
	}

	if config.DiaryKey == "" {
		return nil, fmt.Errorf("DIARY_KEY must be set to a base64-encoded 32-byte key")
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

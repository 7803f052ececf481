package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseDSN        string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthCallbackPort  int
	PollInterval       time.Duration
	SyncLookbackDays   int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	pollInterval := 30 * time.Second
	if v := os.Getenv("GMAIL_POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			pollInterval = parsed
		}
	}

	callbackPort := 8249
	if v := os.Getenv("OAUTH_CALLBACK_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			callbackPort = parsed
		}
	}

	lookbackDays := 90
	if v := os.Getenv("SYNC_LOOKBACK_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			lookbackDays = parsed
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=emailbudget port=5432 sslmode=disable"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthCallbackPort:  callbackPort,
		PollInterval:       pollInterval,
		SyncLookbackDays:   lookbackDays,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

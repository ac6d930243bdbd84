package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	PostgresDSN       string
	BroadcastInterval time.Duration
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, errors.New("POSTGRES_DSN is not set")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		PostgresDSN:       dsn,
		BroadcastInterval: 30 * time.Second,
	}

	if raw := os.Getenv("BROADCAST_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, errors.New("BROADCAST_INTERVAL must be a positive duration")
		}
		cfg.BroadcastInterval = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

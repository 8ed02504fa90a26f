package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort    string `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// WebhookRateLimit is the number of webhook requests allowed per
	// client per minute. Zero disables rate limiting.
	WebhookRateLimit int `envconfig:"WEBHOOK_RATE_LIMIT" default:"0"`

	// StatsSnapshotInterval is the period in seconds between stats
	// snapshot log lines. Zero disables the snapshot job.
	StatsSnapshotInterval int `envconfig:"STATS_SNAPSHOT_INTERVAL" default:"60"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET is not set")
	}

	return &cfg, nil
}

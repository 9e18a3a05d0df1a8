package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything both binaries need: the document host address and
// credentials, plus the sync-core side (remote endpoints, poll interval,
// persistence backends).
type Config struct {
	Environment string `validate:"oneof=development staging production"`
	HTTPAddr    string `validate:"required"`

	// Local persistence. Redis is the default adapter; a Postgres DSN switches
	// the key-value store to GORM.
	RedisAddr     string
	RedisPassword string
	PostgresDSN   string

	// Remote document store endpoints (raw reads + contents-style writes).
	RemoteDataURL     string `validate:"omitempty,url"`
	RemoteMetaURL     string `validate:"omitempty,url"`
	RemoteContentsURL string `validate:"omitempty,url"`

	// Bearer credential for pushes; empty means pushes fail with AuthRequired.
	PushToken string

	// Token PUT requests to the embedded document host must present.
	HostWriteToken string

	SyncInterval time.Duration `validate:"min=1s"`

	KafkaBrokers []string

	LogLevel slog.Level
}

// Load reads configuration from the environment, with .env support for
// development. It returns an error when a value fails validation so the
// process dies at startup rather than mid-sync.
func Load() (Config, error) {
	// Missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Config{
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		RedisAddr:         getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		RemoteDataURL:     os.Getenv("REMOTE_DATA_URL"),
		RemoteMetaURL:     os.Getenv("REMOTE_META_URL"),
		RemoteContentsURL: os.Getenv("REMOTE_CONTENTS_URL"),
		PushToken:         os.Getenv("PUSH_TOKEN"),
		HostWriteToken:    getenv("HOST_WRITE_TOKEN", "dev-token"),
		SyncInterval:      getenvDuration("SYNC_INTERVAL", 60*time.Second),
		LogLevel:          parseLogLevel(getenv("LOG_LEVEL", "info")),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

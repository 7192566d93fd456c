package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	AdminToken string `env:"ADMIN_TOKEN"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`

	// StoreDriver selects the tracking store backing: memory, postgres or mongo.
	StoreDriver string `env:"STORE_DRIVER, default=memory"`

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Lookup   LookupConfig
	Telegram TelegramConfig
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL, default=postgres://localhost:5432/tracking?sslmode=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tracking_panel"`
}

// RedisConfig drives the public-lookup rate limiter. An empty Addr
// disables rate limiting entirely.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type LookupConfig struct {
	RateLimit     int64 `env:"LOOKUP_RATE_LIMIT,  default=30"`
	WindowSeconds int   `env:"LOOKUP_RATE_WINDOW, default=60"`
}

// TelegramConfig drives status-change notifications. An empty BotToken
// disables delivery.
type TelegramConfig struct {
	BotToken      string `env:"TELEGRAM_BOT_TOKEN"`
	NotifyWorkers int    `env:"NOTIFY_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Package redis hosts the fixed-window rate limiter protecting the public
// tracking lookup, together with its connection helper.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config selects the Redis instance backing the rate limiter.
type Config struct {
	Addr string
	DB   int
}

// Connect dials Redis and verifies the connection with a bounded ping
// before handing the client to the limiter. Rate limiting is optional at
// the deployment level, so a misconfigured address fails fast at startup
// instead of on the first throttled request.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	return client, nil
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis. It throttles the
// public tracking lookup to slow down tracking-id enumeration.
// Key format: ratelimit:<client key>
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow increments the counter for key and sets the window TTL on first
// use. Returns whether the caller is still under limit and the current
// count.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, rl.key(key))
	pipe.Expire(ctx, rl.key(key), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("ratelimit: %w", err)
	}
	n := incr.Val()
	return n <= limit, n, nil
}

func (rl *RateLimiter) key(k string) string {
	return "ratelimit:" + k
}

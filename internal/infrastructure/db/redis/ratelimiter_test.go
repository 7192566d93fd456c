package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client), mr
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, _ := newTestLimiter(t)
	ctx := context.Background()

	ok, n, err := rl.Allow(ctx, "203.0.113.9", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, err = rl.Allow(ctx, "203.0.113.9", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	ok, n, err = rl.Allow(ctx, "203.0.113.9", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int64(3), n)
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl, _ := newTestLimiter(t)
	ctx := context.Background()

	_, _, err := rl.Allow(ctx, "203.0.113.9", 1, time.Minute)
	require.NoError(t, err)

	// A different client gets its own counter.
	ok, n, err := rl.Allow(ctx, "198.51.100.7", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl, mr := newTestLimiter(t)
	ctx := context.Background()

	ok, _, err := rl.Allow(ctx, "203.0.113.9", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _, err = rl.Allow(ctx, "203.0.113.9", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, n, err := rl.Allow(ctx, "203.0.113.9", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)
}

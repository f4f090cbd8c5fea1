package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLimiter(client, limit, window), mr
}

func TestLimiter_ExceedsAfterLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
		require.NoError(t, err)
		assert.False(t, exceeded, "request %d", i)
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "login"))
	}

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.True(t, exceeded)

	remaining, err := limiter.Remaining(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestLimiter_RemainingCountsDown(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "10.0.0.1", "register")
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "register"))

	remaining, err = limiter.Remaining(ctx, "10.0.0.1", "register")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestLimiter_PurposesAndIPsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "login"))

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "register")
	require.NoError(t, err)
	assert.False(t, exceeded)

	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.2", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "register"))
	assert.Equal(t, time.Minute, mr.TTL(ipKey("register", "10.0.0.1")))

	mr.FastForward(time.Minute + time.Second)

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "register")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

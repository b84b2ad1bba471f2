package signal

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRateLimiterWindow(t *testing.T) {
	ctx := context.Background()
	rl := NewRoomRateLimiter(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "c1")
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "c2")
	assert.True(t, ok, "keys are independent")

	time.Sleep(60 * time.Millisecond)
	ok, _ = rl.Allow(ctx, "c1")
	assert.True(t, ok, "window slid")

	rl.Forget(ctx, "c1")
	assert.NotContains(t, rl.history, "c1")
}

func TestRedisRateLimiter(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}

	rl := NewRedisRateLimiter(client, "test:huddle:rl:", 2, time.Minute)
	defer rl.Forget(ctx, "c1")

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := rl.Allow(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestThrottle_Allow(t *testing.T) {
	client, _ := setupTestRedis(t)
	th := New(client, Config{MaxPerWindow: 3, Window: time.Hour}, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		sender      string
		attempts    int
		wantAllowed bool
	}{
		{"first attempt allowed", "a@example.com", 1, true},
		{"at limit allowed", "b@example.com", 3, true},
		{"over limit blocked", "c@example.com", 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result *Result
			var err error
			for i := 0; i < tt.attempts; i++ {
				result, err = th.Allow(ctx, tt.sender)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantAllowed, result.Allowed)
			assert.Equal(t, tt.attempts, result.CurrentCount)
			assert.Equal(t, 3, result.MaxAllowed)
			if !tt.wantAllowed {
				assert.Contains(t, result.Message, "exceeded")
			}
		})
	}
}

func TestThrottle_KeyIsCaseInsensitive(t *testing.T) {
	client, _ := setupTestRedis(t)
	th := New(client, Config{MaxPerWindow: 1}, nil)
	ctx := context.Background()

	result, err := th.Allow(ctx, "Jane@Example.com")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = th.Allow(ctx, " jane@example.com ")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestThrottle_WindowExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	th := New(client, Config{MaxPerWindow: 1, Window: time.Hour}, nil)
	ctx := context.Background()

	_, err := th.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("throttle:contact:a@example.com"))

	result, _ := th.Allow(ctx, "a@example.com")
	assert.False(t, result.Allowed)

	mr.FastForward(time.Hour + time.Second)
	result, err = th.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.CurrentCount)
}

func TestThrottle_Reset(t *testing.T) {
	client, _ := setupTestRedis(t)
	th := New(client, Config{MaxPerWindow: 1}, nil)
	ctx := context.Background()

	th.Allow(ctx, "a@example.com")
	result, _ := th.Allow(ctx, "a@example.com")
	assert.False(t, result.Allowed)

	require.NoError(t, th.Reset(ctx, "a@example.com"))
	result, err := th.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestThrottle_FailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	th := New(client, Config{MaxPerWindow: 1}, nil)
	mr.Close()

	for i := 0; i < 3; i++ {
		result, err := th.Allow(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, "throttle unavailable", result.Message)
	}
}

func TestThrottle_NilRedisDisables(t *testing.T) {
	th := New(nil, DefaultConfig(), nil)
	for i := 0; i < 10; i++ {
		result, err := th.Allow(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
	assert.NoError(t, th.Reset(context.Background(), "a@example.com"))

	var nilThrottle *Throttle
	result, err := nilThrottle.Allow(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.MaxPerWindow)
	assert.Equal(t, time.Hour, cfg.Window)
}

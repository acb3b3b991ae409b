package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/poiesic/sapphire/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNew(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		cache, err := New(unreachableClient())
		require.NoError(t, err)
		defer cache.Close()

		assert.Equal(t, DefaultPrefix, cache.prefix)
		assert.Zero(t, cache.ttl)
	})

	t.Run("options", func(t *testing.T) {
		cache, err := New(unreachableClient(), WithPrefix("test:"), WithTTL(time.Hour))
		require.NoError(t, err)
		defer cache.Close()

		assert.Equal(t, "test:ff", cache.key(core.ID(255)))
		assert.Equal(t, time.Hour, cache.ttl)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(unreachableClient(), WithPrefix(""))
		assert.Error(t, err)

		_, err = New(unreachableClient(), WithTTL(-time.Second))
		assert.Error(t, err)
	})
}

func TestVectorCache_Unreachable(t *testing.T) {
	cache, err := New(unreachableClient())
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	_, err = cache.GetVectors(ctx, core.ID(1))
	assert.Error(t, err)

	err = cache.PutVectors(ctx, map[core.ID][]float32{1: {1, 2}})
	assert.Error(t, err)

	t.Run("empty requests skip the server", func(t *testing.T) {
		found, err := cache.GetVectors(ctx)
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.NoError(t, cache.PutVectors(ctx, nil))
	})

	t.Run("dial fails", func(t *testing.T) {
		dialCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		_, err := Dial(dialCtx, "127.0.0.1:1", "", 0)
		assert.Error(t, err)
	})
}

// TestVectorCache_Server runs against a live server when SAPPHIRE_REDIS_ADDR is set.
func TestVectorCache_Server(t *testing.T) {
	addr := os.Getenv("SAPPHIRE_REDIS_ADDR")
	if addr == "" {
		t.Skip("SAPPHIRE_REDIS_ADDR not set")
	}

	ctx := context.Background()
	cache, err := Dial(ctx, addr, "", 0, WithPrefix("sapphire-test:"), WithTTL(time.Minute))
	require.NoError(t, err)
	defer cache.Close()

	cat := core.TokenID("test", "cat")
	missing := core.TokenID("test", "missing")
	require.NoError(t, cache.PutVectors(ctx, map[core.ID][]float32{cat: {0.5, -1}}))

	found, err := cache.GetVectors(ctx, cat, missing)
	require.NoError(t, err)
	assert.Equal(t, map[core.ID][]float32{cat: {0.5, -1}}, found)
}

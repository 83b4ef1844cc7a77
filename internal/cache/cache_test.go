package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/straye-as/chirps-api/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Posts int64  `json:"posts"`
	Name  string `json:"name"`
}

func setupRedisCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, "test:"), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	t.Run("miss returns false without error", func(t *testing.T) {
		var got stats
		found, err := c.Get(ctx, "missing", &got)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("stored value round trips under the prefixed key", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "dash", stats{Posts: 3, Name: "alice"}, time.Minute))
		assert.True(t, mr.Exists("test:dash"))

		var got stats
		found, err := c.Get(ctx, "dash", &got)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(3), got.Posts)
		assert.Equal(t, "alice", got.Name)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", stats{Posts: 1}, time.Second))
		mr.FastForward(2 * time.Second)

		var got stats
		found, err := c.Get(ctx, "short", &got)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", stats{}, time.Minute))
	require.NoError(t, c.Set(ctx, "b", stats{}, time.Minute))

	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("test:a"))
	assert.False(t, mr.Exists("test:b"))

	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCache_GetCorruptValue(t *testing.T) {
	c, mr := setupRedisCache(t)
	require.NoError(t, mr.Set("test:bad", "not-json"))

	var got stats
	found, err := c.Get(context.Background(), "bad", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestConnect_PlainAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, cache.NewRedisCache(client, "").Ping(context.Background()))
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cache.Connect(ctx, addr)
	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	var c cache.Cache = cache.NoopCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", stats{Posts: 1}, time.Minute))
	var got stats
	found, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
}

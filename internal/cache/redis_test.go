package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, prefix string, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, prefix, ttl), srv
}

func TestRedis_ExistsAndSet(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t, "", 0)

	exists, err := c.Exists(ctx, "J-100")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "J-100", 1))

	exists, err = c.Exists(ctx, "J-100")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := srv.Get("J-100")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Zero(t, srv.TTL("J-100"))
}

func TestRedis_SetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t, "", 0)

	require.NoError(t, c.Set(ctx, "J-100", "1"))
	require.NoError(t, c.Set(ctx, "J-100", "1"))

	assert.Len(t, srv.Keys(), 1)
}

func TestRedis_PrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t, "jobsink:done:", time.Hour)

	require.NoError(t, c.Set(ctx, "J-100", "1"))

	assert.True(t, srv.Exists("jobsink:done:J-100"))
	assert.False(t, srv.Exists("J-100"))
	assert.Equal(t, time.Hour, srv.TTL("jobsink:done:J-100"))

	exists, err := c.Exists(ctx, "J-100")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedis_Unreachable(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t, "", 0)
	srv.Close()

	exists, err := c.Exists(ctx, "J-100")
	assert.Error(t, err)
	assert.False(t, exists)

	assert.Error(t, c.Set(ctx, "J-100", "1"))
}

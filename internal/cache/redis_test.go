package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	c := NewRedisCache(server.Addr(), "", 0)
	require.NoError(t, c.Ping(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c, server
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	_, err := c.Get(context.Background(), "analytics:admin")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_SetGet(t *testing.T) {
	c, server := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "analytics:admin", []byte(`{"totalIncome":1}`), 900*time.Second))

	value, err := c.Get(ctx, "analytics:admin")
	require.NoError(t, err)
	assert.Equal(t, `{"totalIncome":1}`, string(value))
	assert.Equal(t, 900*time.Second, server.TTL("analytics:admin"))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, server := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	server.FastForward(time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_ServerError(t *testing.T) {
	c, server := newTestRedisCache(t)
	ctx := context.Background()
	server.SetError("ERR cache unavailable")

	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
}

func TestRedisCache_ServerDownThenRecovers(t *testing.T) {
	c, server := newTestRedisCache(t)
	ctx := context.Background()
	server.Close()

	assert.Error(t, c.Ping(ctx))
	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)

	require.NoError(t, server.Restart())

	assert.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}

func TestNewRedisCache_UnreachableAtStartup(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	c := NewRedisCache(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })

	assert.ErrorContains(t, c.Ping(context.Background()), addr)
	_, err := c.Get(context.Background(), "analytics:admin")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

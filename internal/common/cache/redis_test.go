package cache

import (
	"context"
	"testing"
	"time"

	"termsheet-workers/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	_, err := c.Get(ctx, "intake:text:missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "intake:text:abc", "TRADE DATE: 2023-05-15", time.Minute))
	got, err := c.Get(ctx, "intake:text:abc")
	require.NoError(t, err)
	assert.Equal(t, "TRADE DATE: 2023-05-15", got)
	assert.Equal(t, time.Minute, mr.TTL("intake:text:abc"))
}

func TestRedisClientPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()
	mr.Close()

	assert.Error(t, c.Ping(context.Background()))
}

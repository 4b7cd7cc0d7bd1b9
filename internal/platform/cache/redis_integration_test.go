//go:build integration
// +build integration

package cache

import (
	"context"
	"testing"
	"time"

	"pencraft/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	ctr, err := testcontainers.Run(ctx, "redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	addr, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb, err := ConnectRedis(ctx, &config.Config{RedisAddr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { CloseRedis(rdb) })

	r := NewRedisRevoker(rdb)
	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "abc", time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedKeyPrefix+"abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, r.Revoke(ctx, "expired", time.Now().Add(-time.Second)))
	revoked, err = r.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

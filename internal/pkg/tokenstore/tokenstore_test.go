package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestStore_Revoke(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb)
	ctx := context.Background()

	err := store.Revoke(ctx, "some-token", time.Hour)
	require.NoError(t, err)

	revoked, err := store.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStore_IsRevoked_NotRevoked(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "never-seen-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestStore_Revoke_ExpiredTTL(t *testing.T) {
	rdb, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb)
	ctx := context.Background()

	// Token 剩余有效期为 0，不应写入名单
	err := store.Revoke(ctx, "expired-token", 0)
	require.NoError(t, err)

	revoked, err := store.IsRevoked(ctx, "expired-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestStore_Revoke_EntryExpires(t *testing.T) {
	rdb, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewStore(rdb)
	ctx := context.Background()

	err := store.Revoke(ctx, "short-lived", time.Minute)
	require.NoError(t, err)

	// miniredis 手动推进时间触发过期
	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, revoked)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	require.Error(t, err)
}

func TestRedisStore_RevokeHonorsTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStore_ResetTokenConsumedOnce(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResetToken(ctx, "hash", "user-1", time.Hour))
	assert.True(t, mr.Exists(resetPrefix+"hash"))

	userID, err := store.ConsumeResetToken(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = store.ConsumeResetToken(ctx, "hash")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisStore_ResetTokenExpires(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResetToken(ctx, "hash", "user-1", time.Hour))
	mr.FastForward(61 * time.Minute)

	_, err := store.ConsumeResetToken(ctx, "hash")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisStore_WithClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(context.Background()))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti", time.Minute))
	revoked, _ := store.IsRevoked(ctx, "jti")
	assert.True(t, revoked)

	now = now.Add(time.Minute)
	revoked, _ = store.IsRevoked(ctx, "jti")
	assert.False(t, revoked)
}

func TestMemoryStore_ResetTokenConsumedOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveResetToken(ctx, "h", "u", time.Hour))
	got, err := store.ConsumeResetToken(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "u", got)

	_, err = store.ConsumeResetToken(ctx, "h")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestNormalizeTTL(t *testing.T) {
	assert.Equal(t, time.Hour, normalizeTTL(0))
	assert.Equal(t, time.Hour, normalizeTTL(-time.Second))
	assert.Equal(t, time.Minute, normalizeTTL(time.Minute))
}

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestRedisStoreRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb)

	revoked, err := store.IsRevoked(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, revoked)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, store.RecordRevoked(ctx, "fp", exp))
	require.NoError(t, store.RecordRevoked(ctx, "fp", exp))

	revoked, err = store.IsRevoked(ctx, "fp")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, mr.Exists(DefaultKeyPrefix+"fp"))
	ttl := mr.TTL(DefaultKeyPrefix + "fp")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestRedisStoreEntryExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb)

	require.NoError(t, store.RecordRevoked(ctx, "fp", time.Now().Add(10*time.Second)))
	mr.FastForward(11 * time.Second)

	revoked, err := store.IsRevoked(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreSkipsExpiredRecords(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb)

	require.NoError(t, store.RecordRevoked(ctx, "fp", time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists(DefaultKeyPrefix+"fp"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb)
	mr.Close()

	_, err := store.IsRevoked(ctx, "fp")
	assert.Error(t, err)
	assert.Error(t, store.RecordRevoked(ctx, "fp", time.Now().Add(time.Minute)))
}

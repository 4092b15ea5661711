package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces revocation keys in Redis.
const DefaultKeyPrefix = "token:revoked:"

// RedisStore keeps revocations as Redis keys that expire with the token.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, prefix: DefaultKeyPrefix, now: time.Now}
}

func (s *RedisStore) key(fingerprint string) string {
	return s.prefix + fingerprint
}

func (s *RedisStore) RecordRevoked(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.key(fingerprint), expiresAt.Unix(), ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(fingerprint)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package blacklist

import (
	"context"
	"fmt"
	"time"
)

const keyPrefix = "token:blacklist:"

// redisClient is the subset of pkg/redis.Client used here
type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// RedisStore keeps blacklist entries as expiring Redis keys
type RedisStore struct {
	client redisClient
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed blacklist
func NewRedisStore(client redisClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func redisKey(jti string) string {
	return keyPrefix + jti
}

// Revoke adds the token ID; the key expires together with the token
func (s *RedisStore) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidTokenID
	}

	ok, err := s.client.SetNX(ctx, redisKey(jti), userID, remaining(expiresAt, s.now()))
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	if !ok {
		return ErrAlreadyRevoked
	}
	return nil
}

// IsRevoked reports whether the token ID is blacklisted
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, ErrInvalidTokenID
	}

	found, err := s.client.Exists(ctx, redisKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return found, nil
}

var _ Store = (*RedisStore)(nil)

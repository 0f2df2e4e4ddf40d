package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RedisTokenRepository keeps revoked tokens in Redis. Each key expires with
// the token it blocks, so nothing needs purging.
type RedisTokenRepository struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisTokenRepository creates a new instance of RedisTokenRepository.
func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{
		client:  client,
		timeout: 2 * time.Second,
	}
}

func revokedKey(jti string) string {
	return revokedKeyPrefix + jti
}

func (r *RedisTokenRepository) Revoke(jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token in redis: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) IsRevoked(jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	n, err := r.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up revoked token in redis: %w", err)
	}
	return n > 0, nil
}

func (r *RedisTokenRepository) PurgeExpired() error {
	return nil
}

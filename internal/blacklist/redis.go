package blacklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blk"

// Redis keeps revoked tokens hashed, keyed with a TTL matching the
// longest token lifetime so entries expire together with the tokens
// they revoke.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + ":" + hex.EncodeToString(sum[:])
}

func (r *Redis) Add(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, key(token), 1, r.ttl).Err(); err != nil {
		return fmt.Errorf("blacklist: %w", err)
	}
	return nil
}

func (r *Redis) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist: %w", err)
	}
	return n > 0, nil
}

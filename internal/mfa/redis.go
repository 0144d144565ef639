package mfa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mfa"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID uint64) string {
	return redisKeyPrefix + ":" + strconv.FormatUint(userID, 10)
}

func (s *RedisStore) Save(ctx context.Context, userID uint64, ch *Challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("mfa store: %w", err)
	}
	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, redisKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("mfa store: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID uint64) (*Challenge, error) {
	data, err := s.client.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mfa store: %w", err)
	}
	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("mfa store: %w", err)
	}
	return &ch, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uint64) error {
	if err := s.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("mfa store: %w", err)
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisKeyValueStore struct {
	client *redis.Client
}

// NewRedisKeyValueStore creates a KeyValueStore on an existing Redis client.
// The store owns the client and closes it on Close.
func NewRedisKeyValueStore(client *redis.Client) KeyValueStore {
	return &redisKeyValueStore{client: client}
}

var _ KeyValueStore = (*redisKeyValueStore)(nil)

func (s *redisKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, true, nil
}

// SetMany writes all entries in one MULTI/EXEC transaction.
func (s *redisKeyValueStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	return nil
}

func (s *redisKeyValueStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

func (s *redisKeyValueStore) Close() error {
	return s.client.Close()
}

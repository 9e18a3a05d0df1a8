// Package redis implements the key-value persistence adapter on a Redis
// instance. Keys are namespaced with a prefix so several installs can share
// one server.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

const defaultPrefix = "schedule:"

type KVStore struct {
	client *redis.Client
	prefix string
}

// NewKVStore wraps an existing client. An empty prefix falls back to
// "schedule:".
func NewKVStore(client *redis.Client, prefix string) *KVStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) key(key string) string {
	return fmt.Sprintf("%s%s", s.prefix, key)
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repositories.ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: redis get %s: %v", repositories.ErrStorage, key, err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	// No TTL: persisted state lives until overwritten or deleted.
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", repositories.ErrStorage, key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %v", repositories.ErrStorage, key, err)
	}
	return nil
}

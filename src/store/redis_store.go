package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	logger "github.com/sirupsen/logrus"
)

// RedisStore is the production backend. Keys are "<namespace>:<key>" and
// values are stored without expiry.
type RedisStore struct {
	client *redis.Client
}

var _ Backend = (*RedisStore)(nil)

// NewRedisStore parses a redis:// or rediss:// URL and checks the server is
// reachable.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.WithField("addr", opts.Addr).Info("[store] redis connection established")
	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, compositeKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s:%s: %w", namespace, key, err)
	}
	return b, nil
}

func (s *RedisStore) Save(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.client.Set(ctx, compositeKey(namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s:%s: %w", namespace, key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sig-0/cashrates/cache"
)

// Store is a Redis-backed TTL key-value store
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store adapter.
// The connection is not verified here, an unreachable Redis
// degrades every lookup to a miss instead of failing startup
func NewStore(addr, password string, db int) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Store{
		client: client,
	}
}

// Ping verifies the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}

		return nil, fmt.Errorf("unable to read key %q: %w", key, err)
	}

	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("unable to write key %q: %w", key, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indicates the key is not present in the store
var ErrMiss = errors.New("cache miss")

// Store is an abstraction over a TTL key-value store.
// Entry expiry is the store's responsibility, callers never delete
type Store interface {
	// Get returns the value stored under the given key, or ErrMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value under the given key for the given TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sig-0/cashrates/cache"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero value means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store is an in-process TTL key-value store
type Store struct {
	data map[string]entry

	mu sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		data: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	now := time.Now()

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, cache.ErrMiss
	}

	if e.expired(now) {
		// Lazy eviction
		s.mu.Lock()

		if e, ok = s.data[key]; ok && e.expired(now) {
			delete(s.data, key)
		}

		s.mu.Unlock()

		return nil, cache.ErrMiss
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{
		value: make([]byte, len(value)),
	}

	copy(e.value, value)

	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()

	return nil
}

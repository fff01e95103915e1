package mock

import (
	"context"
	"time"

	"github.com/sig-0/cashrates/cache"
)

type (
	GetDelegate func(context.Context, string) ([]byte, error)
	SetDelegate func(context.Context, string, []byte, time.Duration) error
)

type Store struct {
	GetFn GetDelegate
	SetFn SetDelegate
}

func (m *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}

	return nil, cache.ErrMiss
}

func (m *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}

	return nil
}

package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/cashrates/cache"
	"github.com/sig-0/cashrates/types"
)

// Source produces the raw offer listing for one (city, currency, side)
// selector. A fetch failure is fatal for the request using it
type Source interface {
	Fetch(
		ctx context.Context,
		city types.City,
		currency types.Currency,
		side types.Side,
	) (*types.OfferSet, error)
}

// Service is the read-through quote layer: lookups consult the cache
// store first and fall back to fetch + join + write-through on a miss.
// The store is a performance optimization only, an unreachable or
// failing store never fails a request
type Service struct {
	source Source
	store  cache.Store
	logger *slog.Logger

	quotesTTL time.Duration
	statsTTL  time.Duration
}

// NewService creates a new read-through quote service
func NewService(source Source, store cache.Store, opts ...Option) *Service {
	s := &Service{
		source:    source,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		quotesTTL: 10 * time.Minute,
		statsTTL:  10 * time.Minute,
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Quotes returns the joined buy/sell dataset for one city and currency.
// On a cache miss both sides are fetched from the raw source, joined,
// and written through with the quotes TTL
func (s *Service) Quotes(
	ctx context.Context,
	city types.City,
	currency types.Currency,
) (types.JoinedDataset, error) {
	key := quoteKey(city, currency)

	if data, ok := s.lookup(ctx, key); ok {
		ds, err := decodeDataset(data)
		if err == nil {
			return ds, nil
		}

		s.logger.Error(
			"unable to decode cached quotes",
			"key", key,
			"err", err,
		)
	}

	return s.RefreshQuotes(ctx, city, currency)
}

// RefreshQuotes fetches, joins, and caches the dataset for one city and
// currency, skipping the cache read. Warmers use it to repopulate
// entries ahead of expiry
func (s *Service) RefreshQuotes(
	ctx context.Context,
	city types.City,
	currency types.Currency,
) (types.JoinedDataset, error) {
	key := quoteKey(city, currency)

	// The two sides are independent requests, fetch them concurrently
	var buy, sell *types.OfferSet

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		buy, err = s.source.Fetch(gCtx, city, currency, types.SideBuy)

		return err
	})

	group.Go(func() error {
		var err error

		sell, err = s.source.Fetch(gCtx, city, currency, types.SideSell)

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("unable to fetch %s offers for %s: %w", currency, city, err)
	}

	ds, err := Join(buy, sell)
	if err != nil {
		return nil, fmt.Errorf("unable to join %s offers: %w", currency, err)
	}

	if data, err := encodeDataset(ds); err != nil {
		s.logger.Error(
			"unable to encode quotes for caching",
			"key", key,
			"err", err,
		)
	} else {
		s.writeThrough(ctx, key, data, s.quotesTTL)
	}

	return ds, nil
}

// Statistics returns per-currency summary statistics for one city.
// On a cache miss the dataset is collected currency by currency
// (each through its own cache-or-fetch cycle), aggregated, and
// written through with the statistics TTL
func (s *Service) Statistics(
	ctx context.Context,
	city types.City,
	currencies []types.Currency,
) (map[types.Currency]types.CurrencyStatistics, error) {
	key := statsKey(city)

	if data, ok := s.lookup(ctx, key); ok {
		stats, err := decodeStatistics(data)
		if err == nil {
			return stats, nil
		}

		s.logger.Error(
			"unable to decode cached statistics",
			"key", key,
			"err", err,
		)
	}

	return s.RefreshStatistics(ctx, city, currencies)
}

// RefreshStatistics recomputes and caches per-currency statistics for
// one city, skipping the cache read
func (s *Service) RefreshStatistics(
	ctx context.Context,
	city types.City,
	currencies []types.Currency,
) (map[types.Currency]types.CurrencyStatistics, error) {
	key := statsKey(city)

	ds, err := s.collect(ctx, city, currencies)
	if err != nil {
		return nil, err
	}

	stats := AggregateStatistics(ds)
	if len(stats) == 0 {
		// Nothing to cache
		return stats, nil
	}

	if data, err := encodeStatistics(stats); err != nil {
		s.logger.Error(
			"unable to encode statistics for caching",
			"key", key,
			"err", err,
		)
	} else {
		s.writeThrough(ctx, key, data, s.statsTTL)
	}

	return stats, nil
}

// lookup consults the cache store, treating store errors as misses
func (s *Service) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.store.Get(ctx, key)
	if err == nil {
		return data, true
	}

	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Error(
			"unable to read cache store",
			"key", key,
			"err", err,
		)
	}

	return nil, false
}

// writeThrough saves a computed payload, swallowing store errors
func (s *Service) writeThrough(
	ctx context.Context,
	key string,
	data []byte,
	ttl time.Duration,
) {
	if err := s.store.Set(ctx, key, data, ttl); err != nil {
		s.logger.Error(
			"unable to write cache store",
			"key", key,
			"err", err,
		)
	}
}

func quoteKey(city types.City, currency types.Currency) string {
	return strings.ToLower(city.String() + ":" + currency.String())
}

func statsKey(city types.City) string {
	return "statistics:" + strings.ToLower(city.String())
}

package warm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/cashrates/types"
)

// QuoteWarmer recomputes and re-caches quote payloads on demand
type QuoteWarmer interface {
	RefreshQuotes(
		ctx context.Context,
		city types.City,
		currency types.Currency,
	) (types.JoinedDataset, error)

	RefreshStatistics(
		ctx context.Context,
		city types.City,
		currencies []types.Currency,
	) (map[types.Currency]types.CurrencyStatistics, error)
}

// QuoteRefresher keeps every configured (city, currency) quote entry warm
type QuoteRefresher struct {
	warmer     QuoteWarmer
	cities     []types.City
	currencies []types.Currency
	interval   time.Duration
}

// NewQuoteRefresher creates a refresher covering the given city and
// currency selection
func NewQuoteRefresher(
	warmer QuoteWarmer,
	cities []types.City,
	currencies []types.Currency,
	interval time.Duration,
) *QuoteRefresher {
	return &QuoteRefresher{
		warmer:     warmer,
		cities:     cities,
		currencies: currencies,
		interval:   interval,
	}
}

func (r *QuoteRefresher) Name() string {
	return "quotes"
}

func (r *QuoteRefresher) Interval() time.Duration {
	return r.interval
}

// Refresh refetches every configured (city, currency) pair. The pairs
// are independent and run concurrently; one failing pair fails the run
// so the orchestrator retries it
func (r *QuoteRefresher) Refresh(ctx context.Context) error {
	group, gCtx := errgroup.WithContext(ctx)

	for _, city := range r.cities {
		for _, currency := range r.currencies {
			group.Go(func() error {
				if _, err := r.warmer.RefreshQuotes(gCtx, city, currency); err != nil {
					return fmt.Errorf("unable to refresh %s quotes for %s: %w", currency, city, err)
				}

				return nil
			})
		}
	}

	return group.Wait()
}

// StatisticsRefresher keeps the per-city statistics entries warm
type StatisticsRefresher struct {
	warmer     QuoteWarmer
	cities     []types.City
	currencies []types.Currency
	interval   time.Duration
}

// NewStatisticsRefresher creates a refresher covering the given cities
func NewStatisticsRefresher(
	warmer QuoteWarmer,
	cities []types.City,
	currencies []types.Currency,
	interval time.Duration,
) *StatisticsRefresher {
	return &StatisticsRefresher{
		warmer:     warmer,
		cities:     cities,
		currencies: currencies,
		interval:   interval,
	}
}

func (r *StatisticsRefresher) Name() string {
	return "statistics"
}

func (r *StatisticsRefresher) Interval() time.Duration {
	return r.interval
}

// Refresh recomputes statistics for every configured city
func (r *StatisticsRefresher) Refresh(ctx context.Context) error {
	group, gCtx := errgroup.WithContext(ctx)

	for _, city := range r.cities {
		group.Go(func() error {
			if _, err := r.warmer.RefreshStatistics(gCtx, city, r.currencies); err != nil {
				return fmt.Errorf("unable to refresh statistics for %s: %w", city, err)
			}

			return nil
		})
	}

	return group.Wait()
}

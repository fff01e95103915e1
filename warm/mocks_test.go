package warm

import (
	"context"
	"time"

	"github.com/sig-0/cashrates/types"
)

type (
	nameDelegate     func() string
	intervalDelegate func() time.Duration
	refreshDelegate  func(context.Context) error
)

type mockRefresher struct {
	nameFn     nameDelegate
	intervalFn intervalDelegate
	refreshFn  refreshDelegate
}

func (m *mockRefresher) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockRefresher) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}

	return nil
}

type (
	refreshQuotesDelegate func(
		context.Context,
		types.City,
		types.Currency,
	) (types.JoinedDataset, error)

	refreshStatisticsDelegate func(
		context.Context,
		types.City,
		[]types.Currency,
	) (map[types.Currency]types.CurrencyStatistics, error)
)

type mockWarmer struct {
	refreshQuotesFn     refreshQuotesDelegate
	refreshStatisticsFn refreshStatisticsDelegate
}

func (m *mockWarmer) RefreshQuotes(
	ctx context.Context,
	city types.City,
	currency types.Currency,
) (types.JoinedDataset, error) {
	if m.refreshQuotesFn != nil {
		return m.refreshQuotesFn(ctx, city, currency)
	}

	return types.JoinedDataset{}, nil
}

func (m *mockWarmer) RefreshStatistics(
	ctx context.Context,
	city types.City,
	currencies []types.Currency,
) (map[types.Currency]types.CurrencyStatistics, error) {
	if m.refreshStatisticsFn != nil {
		return m.refreshStatisticsFn(ctx, city, currencies)
	}

	return map[types.Currency]types.CurrencyStatistics{}, nil
}

package server

import (
	"context"

	"github.com/sig-0/cashrates/types"
)

type (
	quotesDelegate func(
		context.Context,
		types.City,
		types.Currency,
	) (types.JoinedDataset, error)

	statisticsDelegate func(
		context.Context,
		types.City,
		[]types.Currency,
	) (map[types.Currency]types.CurrencyStatistics, error)
)

type mockQuoteService struct {
	quotesFn     quotesDelegate
	statisticsFn statisticsDelegate
}

func (m *mockQuoteService) Quotes(
	ctx context.Context,
	city types.City,
	currency types.Currency,
) (types.JoinedDataset, error) {
	if m.quotesFn != nil {
		return m.quotesFn(ctx, city, currency)
	}

	return types.JoinedDataset{}, nil
}

func (m *mockQuoteService) Statistics(
	ctx context.Context,
	city types.City,
	currencies []types.Currency,
) (map[types.Currency]types.CurrencyStatistics, error) {
	if m.statisticsFn != nil {
		return m.statisticsFn(ctx, city, currencies)
	}

	return map[types.Currency]types.CurrencyStatistics{}, nil
}

type marketDelegate func(context.Context, types.Side) ([]*types.P2POffer, error)

type mockMarketSource struct {
	fetchFn marketDelegate
}

func (m *mockMarketSource) Fetch(ctx context.Context, side types.Side) ([]*types.P2POffer, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, side)
	}

	return nil, nil
}

type recordDelegate func(context.Context, int64) error

type mockUsageRecorder struct {
	recordQuoteFn recordDelegate
	recordStatsFn recordDelegate
}

func (m *mockUsageRecorder) RecordQuoteRequest(ctx context.Context, userID int64) error {
	if m.recordQuoteFn != nil {
		return m.recordQuoteFn(ctx, userID)
	}

	return nil
}

func (m *mockUsageRecorder) RecordStatsRequest(ctx context.Context, userID int64) error {
	if m.recordStatsFn != nil {
		return m.recordStatsFn(ctx, userID)
	}

	return nil
}

package p2p

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/cashrates/types"
)

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	snap := Aggregate(types.SideBuy, nil, DefaultConfig())

	require.NotNil(t, snap)
	assert.Equal(t, types.SideBuy, snap.Side)

	assert.Nil(t, snap.PriceMin)
	assert.Nil(t, snap.PriceMax)
	assert.Nil(t, snap.PriceMean)
	assert.Nil(t, snap.PriceMedian)
	assert.Nil(t, snap.MeanSuccessRate)

	assert.Zero(t, snap.Good.MinHundredOrders)
	assert.Zero(t, snap.Good.MinNinetyFiveSuccess)
	assert.Zero(t, snap.Trusted.Count)
	assert.Empty(t, snap.TopOffers)

	// Every target bucket is present, all empty
	require.Len(t, snap.Trusted.PriceByAmount, 4)

	for amount, price := range snap.Trusted.PriceByAmount {
		assert.Nil(t, price, "bucket %d should be empty", amount)
	}
}

func TestAggregate_ZeroOrderCount(t *testing.T) {
	t.Parallel()

	offers := []*types.P2POffer{
		{Price: 90, OrderCount: 0, FinishCount: 0},
	}

	snap := Aggregate(types.SideBuy, offers, DefaultConfig())

	// No division fault, success rate is zero
	require.NotNil(t, snap.MeanSuccessRate)
	assert.Zero(t, *snap.MeanSuccessRate)

	assert.Zero(t, snap.Good.MinHundredOrders)
	assert.Zero(t, snap.Good.MinNinetyFiveSuccess)
}

func TestAggregate_NoTrustedCounterparties(t *testing.T) {
	t.Parallel()

	offers := []*types.P2POffer{
		{Price: 90, MinAmount: 1000, MaxAmount: 200000, OrderCount: 500, FinishCount: 499},
		{Price: 91, MinAmount: 1000, MaxAmount: 200000, OrderCount: 300, FinishCount: 300},
	}

	cfg := DefaultConfig()
	cfg.TrustedMinOrders = 1000

	snap := Aggregate(types.SideBuy, offers, cfg)

	assert.Zero(t, snap.Trusted.Count)
	assert.Nil(t, snap.Trusted.PriceMean)
	assert.Nil(t, snap.Trusted.SuccessMean)

	// No trusted offers, every bucket stays empty
	for amount, price := range snap.Trusted.PriceByAmount {
		assert.Nil(t, price, "bucket %d should be empty", amount)
	}
}

func TestAggregate_TrustedBuckets(t *testing.T) {
	t.Parallel()

	offers := []*types.P2POffer{
		// Trusted, covers every bucket
		{Price: 90, MinAmount: 500, MaxAmount: 500000, OrderCount: 2000, FinishCount: 1990},
		// Trusted, covers only the small buckets
		{Price: 92, MinAmount: 500, MaxAmount: 30000, OrderCount: 1500, FinishCount: 1450},
		// Not trusted (low success rate)
		{Price: 80, MinAmount: 500, MaxAmount: 500000, OrderCount: 2000, FinishCount: 1000},
	}

	snap := Aggregate(types.SideSell, offers, DefaultConfig())

	assert.Equal(t, 2, snap.Trusted.Count)

	require.NotNil(t, snap.Trusted.PriceMean)
	assert.InDelta(t, 91.0, *snap.Trusted.PriceMean, 0.0001)

	small := snap.Trusted.PriceByAmount[10000]
	require.NotNil(t, small)
	assert.InDelta(t, 91.0, *small, 0.0001)

	mid := snap.Trusted.PriceByAmount[30000]
	require.NotNil(t, mid)
	assert.InDelta(t, 91.0, *mid, 0.0001)

	// Only the wide-range offer covers the large buckets
	large := snap.Trusted.PriceByAmount[100000]
	require.NotNil(t, large)
	assert.InDelta(t, 90.0, *large, 0.0001)
}

func TestAggregate_GoodCounterpartyCounters(t *testing.T) {
	t.Parallel()

	offers := []*types.P2POffer{
		{Price: 90, OrderCount: 150, FinishCount: 150}, // both bars
		{Price: 91, OrderCount: 99, FinishCount: 99},   // success bar only
		{Price: 92, OrderCount: 100, FinishCount: 50},  // order bar only
	}

	snap := Aggregate(types.SideBuy, offers, DefaultConfig())

	assert.Equal(t, 2, snap.Good.MinHundredOrders)
	assert.Equal(t, 2, snap.Good.MinNinetyFiveSuccess)
}

func TestAggregate_TopOffers(t *testing.T) {
	t.Parallel()

	offers := []*types.P2POffer{
		{Price: 95, OrderCount: 1000, FinishCount: 950}, // qualifies
		{Price: 90, OrderCount: 1000, FinishCount: 980}, // qualifies, best price
		{Price: 85, OrderCount: 1000, FinishCount: 400}, // finish count too low
		{Price: 86, OrderCount: 1000, FinishCount: 880}, // success below 90%
		{Price: 93, OrderCount: 500, FinishCount: 460},  // qualifies
	}

	cfg := DefaultConfig()
	cfg.TopSize = 2

	snap := Aggregate(types.SideBuy, offers, cfg)

	// Ascending by price, bounded to the slice size
	require.Len(t, snap.TopOffers, 2)
	assert.InDelta(t, 90.0, snap.TopOffers[0].Price, 0.0001)
	assert.InDelta(t, 93.0, snap.TopOffers[1].Price, 0.0001)
}

func TestAggregate_PriceDistribution(t *testing.T) {
	t.Parallel()

	offers := []*types.P2POffer{
		{Price: 88, MinAmount: 100, MaxAmount: 1000, OrderCount: 10, FinishCount: 10},
		{Price: 90, MinAmount: 200, MaxAmount: 2000, OrderCount: 10, FinishCount: 9},
		{Price: 94, MinAmount: 300, MaxAmount: 3000, OrderCount: 10, FinishCount: 8},
		{Price: 96, MinAmount: 400, MaxAmount: 4000, OrderCount: 10, FinishCount: 7},
	}

	snap := Aggregate(types.SideBuy, offers, DefaultConfig())

	require.NotNil(t, snap.PriceMin)
	assert.InDelta(t, 88.0, *snap.PriceMin, 0.0001)

	require.NotNil(t, snap.PriceMax)
	assert.InDelta(t, 96.0, *snap.PriceMax, 0.0001)

	require.NotNil(t, snap.PriceMean)
	assert.InDelta(t, 92.0, *snap.PriceMean, 0.0001)

	// Even count, median is the midpoint of the two middle values
	require.NotNil(t, snap.PriceMedian)
	assert.InDelta(t, 92.0, *snap.PriceMedian, 0.0001)

	require.NotNil(t, snap.MinAmountMean)
	assert.InDelta(t, 250.0, *snap.MinAmountMean, 0.0001)

	require.NotNil(t, snap.MaxAmountMedian)
	assert.InDelta(t, 2500.0, *snap.MaxAmountMedian, 0.0001)
}

package p2p

import (
	"sort"

	"github.com/sig-0/cashrates/types"
)

// Reliability bars for the "good counterparty" counters
const (
	goodMinOrders  = 100
	goodMinSuccess = float64(95)
)

// Config holds the thresholds for the trusted-counterparty and
// top-price aggregates
type Config struct {
	// TrustedMinOrders is the minimum total order count for a
	// counterparty to be considered trusted
	TrustedMinOrders int

	// TrustedMinSuccess is the minimum success percentage for a
	// counterparty to be considered trusted
	TrustedMinSuccess float64

	// TargetAmounts are the transaction amounts the trusted
	// price-by-amount breakdown is computed for
	TargetAmounts []int

	// TopMinFinished is the completed-order floor for the top slice
	// (exclusive)
	TopMinFinished int

	// TopMinSuccess is the success-percentage floor for the top slice
	TopMinSuccess float64

	// TopSize bounds the top slice
	TopSize int
}

// DefaultConfig returns the default aggregation thresholds
func DefaultConfig() Config {
	return Config{
		TrustedMinOrders:  1000,
		TrustedMinSuccess: 95,
		TargetAmounts:     []int{10000, 30000, 60000, 100000},
		TopMinFinished:    400,
		TopMinSuccess:     90,
		TopSize:           50,
	}
}

// Aggregate reduces a flat list of P2P offers for one trading side into
// a market snapshot. Every division is null/zero safe: an empty offer
// list yields nil means and zero counts, a counterparty with no orders
// has a zero success rate
func Aggregate(side types.Side, offers []*types.P2POffer, cfg Config) *types.P2PMarketSnapshot {
	snap := &types.P2PMarketSnapshot{
		Side: side,
		Trusted: types.TrustedStatistics{
			PriceByAmount: make(map[int]*float64, len(cfg.TargetAmounts)),
		},
	}

	for _, amount := range cfg.TargetAmounts {
		snap.Trusted.PriceByAmount[amount] = nil
	}

	if len(offers) == 0 {
		return snap
	}

	var (
		prices     = make([]float64, 0, len(offers))
		minAmounts = make([]float64, 0, len(offers))
		maxAmounts = make([]float64, 0, len(offers))
		rates      = make([]float64, 0, len(offers))

		trusted []*types.P2POffer
	)

	for _, offer := range offers {
		rate := offer.SuccessRate()

		prices = append(prices, offer.Price)
		minAmounts = append(minAmounts, offer.MinAmount)
		maxAmounts = append(maxAmounts, offer.MaxAmount)
		rates = append(rates, rate)

		if offer.OrderCount >= goodMinOrders {
			snap.Good.MinHundredOrders++
		}

		if rate >= goodMinSuccess {
			snap.Good.MinNinetyFiveSuccess++
		}

		if offer.OrderCount >= cfg.TrustedMinOrders && rate >= cfg.TrustedMinSuccess {
			trusted = append(trusted, offer)
		}
	}

	minPrice, maxPrice := bounds(prices)

	snap.PriceMin = &minPrice
	snap.PriceMax = &maxPrice
	snap.PriceMean = mean(prices)
	snap.PriceMedian = median(prices)
	snap.MinAmountMean = mean(minAmounts)
	snap.MinAmountMedian = median(minAmounts)
	snap.MaxAmountMean = mean(maxAmounts)
	snap.MaxAmountMedian = median(maxAmounts)
	snap.MeanSuccessRate = mean(rates)

	aggregateTrusted(&snap.Trusted, trusted, cfg)

	snap.TopOffers = topOffers(offers, cfg)

	return snap
}

// aggregateTrusted fills in the trusted-counterparty sub-aggregate
func aggregateTrusted(out *types.TrustedStatistics, trusted []*types.P2POffer, cfg Config) {
	out.Count = len(trusted)

	if len(trusted) == 0 {
		return
	}

	var (
		prices     = make([]float64, 0, len(trusted))
		minAmounts = make([]float64, 0, len(trusted))
		maxAmounts = make([]float64, 0, len(trusted))
		rates      = make([]float64, 0, len(trusted))
	)

	for _, offer := range trusted {
		prices = append(prices, offer.Price)
		minAmounts = append(minAmounts, offer.MinAmount)
		maxAmounts = append(maxAmounts, offer.MaxAmount)
		rates = append(rates, offer.SuccessRate())
	}

	out.PriceMean = mean(prices)
	out.PriceMedian = median(prices)
	out.SuccessMean = mean(rates)
	out.MinAmountMean = mean(minAmounts)
	out.MaxAmountMean = mean(maxAmounts)

	for _, amount := range cfg.TargetAmounts {
		var eligible []float64

		for _, offer := range trusted {
			// The offer's [min, max] range must cover the target amount
			if offer.MinAmount <= float64(amount) && offer.MaxAmount >= float64(amount) {
				eligible = append(eligible, offer.Price)
			}
		}

		out.PriceByAmount[amount] = mean(eligible)
	}
}

// topOffers returns the best-priced slice of high-volume counterparties
func topOffers(offers []*types.P2POffer, cfg Config) []*types.P2POffer {
	filtered := make([]*types.P2POffer, 0, len(offers))

	for _, offer := range offers {
		if offer.FinishCount <= cfg.TopMinFinished {
			continue
		}

		if offer.SuccessRate() < cfg.TopMinSuccess {
			continue
		}

		filtered = append(filtered, offer)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Price < filtered[j].Price
	})

	if cfg.TopSize > 0 && len(filtered) > cfg.TopSize {
		filtered = filtered[:cfg.TopSize]
	}

	return filtered
}

// mean returns the mean of the values, or nil when there are none
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	m := sum / float64(len(values))

	return &m
}

// median returns the median of the values, or nil when there are none
func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)

	var m float64

	if n%2 == 0 {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		m = sorted[n/2]
	}

	return &m
}

// bounds returns the min and max of a non-empty value slice
func bounds(values []float64) (float64, float64) {
	minV, maxV := values[0], values[0]

	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}

		if v > maxV {
			maxV = v
		}
	}

	return minV, maxV
}

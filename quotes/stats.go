package quotes

import (
	"github.com/sig-0/cashrates/types"
)

// AggregateStatistics reduces a joined dataset spanning one or more
// currencies into per-currency summary statistics. Averages are taken
// over available values only and reported as nil when no value exists.
// Min/max spread default to 0.0 when no row has a defined spread.
// An empty dataset yields an empty mapping
func AggregateStatistics(ds types.JoinedDataset) map[types.Currency]types.CurrencyStatistics {
	stats := make(map[types.Currency]types.CurrencyStatistics)

	grouped := make(map[types.Currency][]*types.JoinedOffer)

	for _, offer := range ds {
		grouped[offer.Currency] = append(grouped[offer.Currency], offer)
	}

	for currency, offers := range grouped {
		var (
			buys, sells, mids, spreads []float64
		)

		for _, offer := range offers {
			buys = append(buys, offer.BuyQuote)

			if offer.SellQuote != nil {
				sells = append(sells, *offer.SellQuote)
			}

			if offer.MidPrice != nil {
				mids = append(mids, *offer.MidPrice)
			}

			if offer.Spread != nil {
				spreads = append(spreads, *offer.Spread)
			}
		}

		minSpread, maxSpread := minMax(spreads)

		stats[currency] = types.CurrencyStatistics{
			NumBuys:   len(buys),
			NumSells:  len(sells),
			AvgBuy:    meanOf(buys),
			AvgSell:   meanOf(sells),
			AvgMid:    meanOf(mids),
			MinSpread: minSpread,
			MaxSpread: maxSpread,
			AvgSpread: meanOf(spreads),
		}
	}

	return stats
}

// meanOf returns the mean of the given values rounded to 2 decimal
// places, or nil when there are none
func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	mean := round2(sum / float64(len(values)))

	return &mean
}

// minMax returns the rounded min and max of the given values.
// Both are 0.0 when there are no values
func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	minV, maxV := values[0], values[0]

	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}

		if v > maxV {
			maxV = v
		}
	}

	return round2(minV), round2(maxV)
}

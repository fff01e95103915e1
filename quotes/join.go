package quotes

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sig-0/cashrates/types"
)

var (
	errNilOfferSet    = errors.New("offer set is nil")
	errColumnMismatch = errors.New("offer set columns have unequal lengths")
)

// Join merges the buy-side and sell-side listings of a single currency
// into a unified dataset. The join is a left join keyed by bank name,
// anchored on the buy side: every buy row is kept, banks present only
// on the sell side are dropped. When the source yields duplicate bank
// names on the sell side, the first occurrence wins.
//
// Spread, spread percentage and mid price are derived per matched row,
// rounded to 2 decimal places. The spread percentage is nil when the
// sell quote is nil or zero. The result is sorted ascending by buy quote
func Join(buy, sell *types.OfferSet) (types.JoinedDataset, error) {
	if err := validateSet(buy); err != nil {
		return nil, fmt.Errorf("invalid buy set: %w", err)
	}

	if err := validateSet(sell); err != nil {
		return nil, fmt.Errorf("invalid sell set: %w", err)
	}

	// First sell occurrence per bank wins
	sellQuotes := make(map[string]float64, sell.Len())

	for i, bank := range sell.Banks {
		if _, ok := sellQuotes[bank]; ok {
			continue
		}

		sellQuotes[bank] = sell.Quotes[i]
	}

	ds := make(types.JoinedDataset, 0, buy.Len())

	for i, bank := range buy.Banks {
		offer := &types.JoinedOffer{
			Currency:   buy.Currency,
			Bank:       bank,
			BuyQuote:   buy.Quotes[i],
			Time:       buy.Times[i],
			Commission: buy.Commissions[i],
		}

		if sellQuote, ok := sellQuotes[bank]; ok {
			offer.SellQuote = &sellQuote

			spread := round2(offer.BuyQuote - sellQuote)
			offer.Spread = &spread

			if sellQuote != 0 {
				spreadPercent := round2(spread / sellQuote * 100)
				offer.SpreadPercent = &spreadPercent
			}

			mid := round2((offer.BuyQuote + sellQuote) / 2)
			offer.MidPrice = &mid
		}

		ds = append(ds, offer)
	}

	// Stable, so equal buy quotes keep their listing order
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].BuyQuote < ds[j].BuyQuote
	})

	return ds, nil
}

// validateSet verifies the parallel columns line up
func validateSet(s *types.OfferSet) error {
	if s == nil {
		return errNilOfferSet
	}

	n := s.Len()

	if len(s.Quotes) != n || len(s.Times) != n || len(s.Commissions) != n {
		return errColumnMismatch
	}

	return nil
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

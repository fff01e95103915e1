package quotes

import (
	"encoding/json"
	"fmt"

	"github.com/sig-0/cashrates/types"
)

// Cache payloads are row-oriented JSON records with RFC3339 timestamps
// carrying the zone offset. Decoding restores timestamps to the Moscow
// zone so cached and freshly joined datasets are indistinguishable

func encodeDataset(ds types.JoinedDataset) ([]byte, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("unable to encode dataset: %w", err)
	}

	return data, nil
}

func decodeDataset(data []byte) (types.JoinedDataset, error) {
	var ds types.JoinedDataset

	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("unable to decode dataset: %w", err)
	}

	loc := types.Moscow()

	for _, offer := range ds {
		offer.Time = offer.Time.In(loc)
	}

	return ds, nil
}

func encodeStatistics(stats map[types.Currency]types.CurrencyStatistics) ([]byte, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("unable to encode statistics: %w", err)
	}

	return data, nil
}

func decodeStatistics(data []byte) (map[types.Currency]types.CurrencyStatistics, error) {
	var stats map[types.Currency]types.CurrencyStatistics

	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unable to decode statistics: %w", err)
	}

	return stats, nil
}

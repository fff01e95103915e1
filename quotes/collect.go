package quotes

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/cashrates/types"
)

// collect runs the cache-or-fetch cycle for every requested currency
// and concatenates the results into one dataset. Per-currency lookups
// run concurrently, the concatenation preserves the input currency
// order. Currencies with no offers contribute zero rows; if every
// currency is empty, the result is an empty dataset
func (s *Service) collect(
	ctx context.Context,
	city types.City,
	currencies []types.Currency,
) (types.JoinedDataset, error) {
	results := make([]types.JoinedDataset, len(currencies))

	group, gCtx := errgroup.WithContext(ctx)

	for i, currency := range currencies {
		group.Go(func() error {
			ds, err := s.Quotes(gCtx, city, currency)
			if err != nil {
				return err
			}

			results[i] = ds

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, ds := range results {
		total += len(ds)
	}

	out := make(types.JoinedDataset, 0, total)
	for _, ds := range results {
		out = append(out, ds...)
	}

	return out, nil
}

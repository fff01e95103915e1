package quotes

import (
	"context"

	"github.com/sig-0/cashrates/types"
)

type fetchDelegate func(
	context.Context,
	types.City,
	types.Currency,
	types.Side,
) (*types.OfferSet, error)

type mockSource struct {
	fetchFn fetchDelegate
}

func (m *mockSource) Fetch(
	ctx context.Context,
	city types.City,
	currency types.Currency,
	side types.Side,
) (*types.OfferSet, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, city, currency, side)
	}

	return &types.OfferSet{}, nil
}

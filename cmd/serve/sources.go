package serve

import (
	"time"

	"github.com/sig-0/cashrates/provider/bybit"
	"github.com/sig-0/cashrates/provider/rbc"
)

// defaultSources returns the default cash-quote and P2P market sources
func defaultSources() (*rbc.Provider, *bybit.Provider) {
	var (
		// RBC cash listings
		cashSource = rbc.NewProvider(
			rbc.DefaultURL,
			time.Second*30,
		)

		// Bybit OTC order book
		marketSource = bybit.NewProvider(
			bybit.DefaultURL,
			time.Second*30,
		)
	)

	return cashSource, marketSource
}

package server

import "github.com/sig-0/cashrates/types"

type QuotesResponse struct {
	City     string              `json:"city"`
	Currency string              `json:"currency"`
	Results  types.JoinedDataset `json:"results"`
}

type StatisticsResponse struct {
	City    string                                      `json:"city"`
	Results map[types.Currency]types.CurrencyStatistics `json:"results"`
}

type P2PResponse struct {
	Results *types.P2PMarketSnapshot `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

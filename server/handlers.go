package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/cashrates/p2p"
	"github.com/sig-0/cashrates/types"
)

// Requests without a limit param are capped at the configured default
// bank count, "all" lifts the cap entirely
const limitAll = "all"

var (
	errUnableToFetchQuotes     = errors.New("unable to fetch quotes")
	errUnableToFetchStatistics = errors.New("unable to fetch statistics")
	errUnableToFetchMarket     = errors.New("unable to fetch market snapshot")

	errInvalidLimit = errors.New("invalid limit")
)

func (s *Server) QuotesForCity(w http.ResponseWriter, r *http.Request) {
	var (
		cityParam     = chi.URLParam(r, "city")
		currencyParam = chi.URLParam(r, "currency")

		limitParam = r.URL.Query().Get("limit")
	)

	// Parse the city
	city, err := types.ParseCity(cityParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the currency
	currency, err := types.ParseCurrency(currencyParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the listing limit
	limit, err := s.parseLimit(limitParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	ds, err := s.quotes.Quotes(r.Context(), city, currency)
	if err != nil {
		s.logger.Debug(
			"unable to fetch quotes",
			"city", city,
			"currency", currency,
			"err", err,
		)

		writeError(
			w,
			http.StatusBadGateway,
			errUnableToFetchQuotes,
		)

		return
	}

	if limit > 0 && len(ds) > limit {
		ds = ds[:limit]
	}

	if s.users != nil {
		s.recordUsage(r, s.users.RecordQuoteRequest)
	}

	resp := &QuotesResponse{
		City:     city.String(),
		Currency: currency.String(),
		Results:  ds,
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) StatisticsForCity(w http.ResponseWriter, r *http.Request) {
	var (
		cityParam = chi.URLParam(r, "city")

		currenciesParam = r.URL.Query().Get("currencies")
	)

	// Parse the city
	city, err := types.ParseCity(cityParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the currency selection (defaults to the configured list)
	currencies, err := s.parseCurrencies(currenciesParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	stats, err := s.quotes.Statistics(r.Context(), city, currencies)
	if err != nil {
		s.logger.Debug(
			"unable to fetch statistics",
			"city", city,
			"err", err,
		)

		writeError(
			w,
			http.StatusBadGateway,
			errUnableToFetchStatistics,
		)

		return
	}

	if s.users != nil {
		s.recordUsage(r, s.users.RecordStatsRequest)
	}

	resp := &StatisticsResponse{
		City:    city.String(),
		Results: stats,
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) P2PSnapshot(w http.ResponseWriter, r *http.Request) {
	sideParam := chi.URLParam(r, "side")

	// Parse the trading side
	side, err := types.ParseSide(sideParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	offers, err := s.market.Fetch(r.Context(), side)
	if err != nil {
		s.logger.Debug(
			"unable to fetch market snapshot",
			"side", side,
			"err", err,
		)

		writeError(
			w,
			http.StatusBadGateway,
			errUnableToFetchMarket,
		)

		return
	}

	resp := &P2PResponse{
		Results: p2p.Aggregate(side, offers, s.aggregateConfig()),
	}

	writeJSON(w, http.StatusOK, resp)
}

// aggregateConfig maps the server P2P section onto the aggregation
// thresholds
func (s *Server) aggregateConfig() p2p.Config {
	p := s.config.P2P

	return p2p.Config{
		TrustedMinOrders:  p.TrustedMinOrders,
		TrustedMinSuccess: p.TrustedMinSuccess,
		TargetAmounts:     p.TargetAmounts,
		TopMinFinished:    p.TopMinFinished,
		TopMinSuccess:     p.TopMinSuccess,
		TopSize:           p.TopSize,
	}
}

// recordUsage bumps the caller's request counter when the request is
// attributed to a user. Recording failures are logged and dropped
func (s *Server) recordUsage(r *http.Request, record func(ctx context.Context, userID int64) error) {
	raw := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if raw == "" {
		return
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return
	}

	if err := record(r.Context(), userID); err != nil {
		s.logger.Error(
			"unable to record usage",
			"user", userID,
			"err", err,
		)
	}
}

// parseLimit resolves the listing limit, 0 meaning unbounded
func (s *Server) parseLimit(limitRaw string) (int, error) {
	v := strings.TrimSpace(limitRaw)
	if v == "" {
		return s.config.Quotes.DefaultBankCount, nil
	}

	if strings.EqualFold(v, limitAll) {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errInvalidLimit
	}

	return n, nil
}

// parseCurrencies resolves a comma-separated currency selection,
// defaulting to the configured list
func (s *Server) parseCurrencies(currenciesRaw string) ([]types.Currency, error) {
	v := strings.TrimSpace(currenciesRaw)
	if v == "" {
		return s.config.Quotes.ParsedCurrencies(), nil
	}

	parts := strings.Split(v, ",")
	currencies := make([]types.Currency, 0, len(parts))

	for _, part := range parts {
		currency, err := types.ParseCurrency(part)
		if err != nil {
			return nil, err
		}

		currencies = append(currencies, currency)
	}

	return currencies, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}

//nolint:tagliatelle // Bybit API uses camel case
package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sig-0/cashrates/types"
)

// DefaultURL is the Bybit OTC advertisement endpoint
const DefaultURL = "https://api2.bybit.com/fiat/otc/item/online"

const (
	tokenID    = "USDT"
	currencyID = "RUB"
	pageSize   = "10000"
)

// otcRequest is the request body for the Bybit OTC API
type otcRequest struct {
	TokenID    string `json:"tokenId"`
	CurrencyID string `json:"currencyId"`
	Side       string `json:"side"`
	Size       string `json:"size"`
}

// otcResponse is the response from the Bybit OTC API
type otcResponse struct {
	Result otcResult `json:"result"`
}

type otcResult struct {
	Items []otcItem `json:"items"`
}

type otcItem struct {
	Price     string `json:"price"`
	MinAmount string `json:"minAmount"`
	MaxAmount string `json:"maxAmount"`
	OrderNum  int    `json:"orderNum"`
	FinishNum int    `json:"finishNum"`
}

// Provider fetches USDT/RUB P2P advertisements from Bybit
type Provider struct {
	client *http.Client
	url    string
}

// NewProvider creates a new instance of the Bybit OTC provider
func NewProvider(url string, timeout time.Duration) *Provider {
	return &Provider{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

// Fetch returns the online advertisements for one trading side.
// Advertisements with an unparsable price are skipped
func (p *Provider) Fetch(ctx context.Context, side types.Side) ([]*types.P2POffer, error) {
	// 1 = buying USDT, 0 = selling USDT
	sideCode := "1"
	if side == types.SideSell {
		sideCode = "0"
	}

	reqBody := otcRequest{
		TokenID:    tokenID,
		CurrencyID: currencyID,
		Side:       sideCode,
		Size:       pageSize,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://www.bybit.com")
	req.Header.Set("Referer", "https://www.bybit.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute POST request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	var apiResp otcResponse
	if err = json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}

	offers := make([]*types.P2POffer, 0, len(apiResp.Result.Items))

	for _, item := range apiResp.Result.Items {
		price, ok := parseFloat(item.Price)
		if !ok {
			continue
		}

		var (
			minAmount, _ = parseFloat(item.MinAmount)
			maxAmount, _ = parseFloat(item.MaxAmount)
		)

		offers = append(offers, &types.P2POffer{
			Price:       price,
			MinAmount:   minAmount,
			MaxAmount:   maxAmount,
			OrderCount:  item.OrderNum,
			FinishCount: item.FinishNum,
		})
	}

	return offers, nil
}

// parseFloat parses a float string into a value
func parseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	return parsed, true
}

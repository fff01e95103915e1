package rbc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/cashrates/types"
)

// DefaultURL is the cash quote listing page
const DefaultURL = "https://cash.rbc.ru/cash/"

const (
	listingSelector = "div.quote__office__content.js-office-content"
	bankSelector    = "a.quote__office__one__name"
	rateSelector    = "div.quote__office__cell.quote__office__one__rate.quote__mode_list_view"
	timeSelector    = "div.quote__office__cell.quote__office__one__time"
)

// Provider scrapes the bank cash-quote listing site
type Provider struct {
	client *http.Client
	url    string
}

// NewProvider creates a new instance of the listing site provider
func NewProvider(url string, timeout time.Duration) *Provider {
	return &Provider{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

// Fetch scrapes one side of a single currency's listing for the given
// city. An empty listing is a valid result, not an error
func (p *Provider) Fetch(
	ctx context.Context,
	city types.City,
	currency types.Currency,
	side types.Side,
) (*types.OfferSet, error) {
	currencyCode, err := CurrencyCode(currency)
	if err != nil {
		return nil, err
	}

	cityCode, err := CityCode(city)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s?currency=%d&city=%d&deal=%s&amount=1",
		p.url,
		currencyCode,
		cityCode,
		side,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	container := doc.Find(listingSelector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("quote listing container not found")
	}

	var (
		banks    = texts(container.Find(bankSelector))
		rates    = texts(container.Find(rateSelector))
		timeRows = texts(container.Find(timeSelector))
	)

	if len(rates) != len(banks) || len(timeRows) != len(banks) {
		return nil, fmt.Errorf(
			"listing columns misaligned: %d banks, %d rates, %d times",
			len(banks),
			len(rates),
			len(timeRows),
		)
	}

	set := &types.OfferSet{
		Currency:    currency,
		Banks:       make([]string, 0, len(banks)),
		Quotes:      make([]float64, 0, len(banks)),
		Times:       make([]time.Time, 0, len(banks)),
		Commissions: make([]bool, 0, len(banks)),
	}

	loc := types.Moscow()

	for i, bank := range banks {
		// Offers with an extra commission are marked with a % sign
		// next to the rate
		commission := strings.Contains(rates[i], "%")

		quote, err := parseRate(rates[i])
		if err != nil {
			return nil, fmt.Errorf("unable to parse rate for %q: %w", bank, err)
		}

		observed, err := parseListingTime(timeRows[i], loc)
		if err != nil {
			return nil, fmt.Errorf("unable to parse time for %q: %w", bank, err)
		}

		set.Banks = append(set.Banks, bank)
		set.Quotes = append(set.Quotes, quote)
		set.Times = append(set.Times, observed)
		set.Commissions = append(set.Commissions, commission)
	}

	return set, nil
}

// texts collects the trimmed text of every node in the selection
func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())

	sel.Each(func(_ int, node *goquery.Selection) {
		out = append(out, strings.TrimSpace(node.Text()))
	})

	return out
}

// parseRate parses a listed rate, stripping the commission marker
func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse rate %q: %w", s, err)
	}

	return v, nil
}

// parseListingTime parses an HH:MM observation time. The listing is
// real-time, so the day is always the current date in the Moscow zone
func parseListingTime(s string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse time %q: %w", s, err)
	}

	now := time.Now().In(loc)

	return time.Date(
		now.Year(),
		now.Month(),
		now.Day(),
		parsed.Hour(),
		parsed.Minute(),
		0,
		0,
		loc,
	), nil
}

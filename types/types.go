package types

import "time"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyAED Currency = "AED"
)

func (c Currency) String() string {
	return string(c)
}

type City string

const (
	CityMoscow City = "Moscow"
	CitySPB    City = "SPB"
)

func (c City) String() string {
	return string(c)
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) String() string {
	return string(s)
}

// OfferSet is one side (buy or sell) of a single currency's listing,
// as parallel columns. All columns must have equal length; zero length
// means no offers are published
type OfferSet struct {
	Currency    Currency
	Banks       []string
	Quotes      []float64
	Times       []time.Time
	Commissions []bool
}

// Len returns the number of offers in the set
func (s *OfferSet) Len() int {
	return len(s.Banks)
}

// JoinedOffer is one bank's merged buy/sell quote. Sell-side fields are
// nil when the bank has no matching sell offer
type JoinedOffer struct {
	Currency      Currency  `json:"currency"`
	Bank          string    `json:"bank"`
	BuyQuote      float64   `json:"buy_quote"`
	SellQuote     *float64  `json:"sell_quote"`
	Spread        *float64  `json:"spread"`
	SpreadPercent *float64  `json:"spread_percent"`
	MidPrice      *float64  `json:"avg_price"`
	Time          time.Time `json:"time"`
	Commission    bool      `json:"commissions"`
}

// JoinedDataset is an ordered set of joined offers, ascending by buy
// quote within each currency block
type JoinedDataset []*JoinedOffer

// CurrencyStatistics is the per-currency summary over a joined dataset.
// Averages are nil when no value is available; min/max spread default
// to 0.0 when no row has a defined spread
type CurrencyStatistics struct {
	NumBuys   int      `json:"num_of_available_buys"`
	NumSells  int      `json:"num_of_available_sells"`
	AvgBuy    *float64 `json:"avg_buys"`
	AvgSell   *float64 `json:"avg_sells"`
	AvgMid    *float64 `json:"avg_price"`
	MinSpread float64  `json:"min_spread_rub"`
	MaxSpread float64  `json:"max_spread_rub"`
	AvgSpread *float64 `json:"avg_spread_rub"`
}

// P2POffer is a single P2P trading advertisement
type P2POffer struct {
	Price       float64 `json:"price"`
	MinAmount   float64 `json:"min_amount"`
	MaxAmount   float64 `json:"max_amount"`
	OrderCount  int     `json:"order_count"`
	FinishCount int     `json:"finish_count"`
}

// SuccessRate is the completed-order percentage, 0 when the
// counterparty has no orders at all
func (o *P2POffer) SuccessRate() float64 {
	if o.OrderCount == 0 {
		return 0
	}

	return float64(o.FinishCount) / float64(o.OrderCount) * 100
}

// GoodCounterparties counts counterparties above fixed reliability bars
type GoodCounterparties struct {
	MinHundredOrders     int `json:"count_100_trades"`
	MinNinetyFiveSuccess int `json:"count_95_percent_success"`
}

// TrustedStatistics is the sub-aggregate over counterparties that clear
// the configured minimum order-count and success-rate thresholds
type TrustedStatistics struct {
	Count         int              `json:"count"`
	PriceMean     *float64         `json:"price_mean"`
	PriceMedian   *float64         `json:"price_median"`
	SuccessMean   *float64         `json:"success_mean"`
	MinAmountMean *float64         `json:"min_avg"`
	MaxAmountMean *float64         `json:"max_avg"`
	PriceByAmount map[int]*float64 `json:"avg_prices_by_amount"`
}

// P2PMarketSnapshot is the descriptive aggregate over one side of the
// P2P order book
type P2PMarketSnapshot struct {
	Side            Side               `json:"side"`
	PriceMin        *float64           `json:"price_min"`
	PriceMax        *float64           `json:"price_max"`
	PriceMean       *float64           `json:"price_mean"`
	PriceMedian     *float64           `json:"price_median"`
	MinAmountMean   *float64           `json:"min_amount_mean"`
	MinAmountMedian *float64           `json:"min_amount_median"`
	MaxAmountMean   *float64           `json:"max_amount_mean"`
	MaxAmountMedian *float64           `json:"max_amount_median"`
	MeanSuccessRate *float64           `json:"mean_success_rate"`
	Good            GoodCounterparties `json:"good_sellers"`
	Trusted         TrustedStatistics  `json:"trusted"`
	TopOffers       []*P2POffer        `json:"top_offers"`
}

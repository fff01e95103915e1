package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrUnknownCity     = errors.New("unknown city")
	ErrUnknownSide     = errors.New("unknown side")
)

// ParseCurrency resolves a currency code from user input.
// Unknown codes are rejected, there is no fallback currency
func ParseCurrency(v string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(v))) {
	case CurrencyUSD:
		return CurrencyUSD, nil
	case CurrencyEUR:
		return CurrencyEUR, nil
	case CurrencyGBP:
		return CurrencyGBP, nil
	case CurrencyAED:
		return CurrencyAED, nil
	default:
		return "", fmt.Errorf("%w, %q", ErrUnknownCurrency, v)
	}
}

// ParseCity resolves a city from user input
func ParseCity(v string) (City, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "moscow":
		return CityMoscow, nil
	case "spb":
		return CitySPB, nil
	default:
		return "", fmt.Errorf("%w, %q", ErrUnknownCity, v)
	}
}

// ParseSide resolves a trading side from user input
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w, %q", ErrUnknownSide, v)
	}
}

// Moscow returns the time zone quotes are observed in.
// Both supported cities share it
func Moscow() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err == nil {
		return loc
	}

	return time.FixedZone("MSK", 3*60*60)
}

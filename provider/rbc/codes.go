package rbc

import (
	"fmt"

	"github.com/sig-0/cashrates/types"
)

// The listing site selects currencies and cities through opaque numeric
// query codes. The tables are finite on purpose: an unknown code is an
// error, never a silent fallback

var currencyCodes = map[types.Currency]int{
	types.CurrencyUSD: 3,
	types.CurrencyEUR: 2,
	types.CurrencyGBP: 321,
	types.CurrencyAED: 5,
}

var cityCodes = map[types.City]int{
	types.CityMoscow: 1,
	types.CitySPB:    2,
}

// CurrencyCode maps a currency to its listing-site selector code
func CurrencyCode(currency types.Currency) (int, error) {
	code, ok := currencyCodes[currency]
	if !ok {
		return 0, fmt.Errorf("no listing code for currency %q", currency)
	}

	return code, nil
}

// CityCode maps a city to its listing-site selector code
func CityCode(city types.City) (int, error) {
	code, ok := cityCodes[city]
	if !ok {
		return 0, fmt.Errorf("no listing code for city %q", city)
	}

	return code, nil
}

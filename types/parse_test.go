package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Currency(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		input    string
		expected Currency
	}{
		{"usd", CurrencyUSD},
		{"USD", CurrencyUSD},
		{" eur ", CurrencyEUR},
		{"gbp", CurrencyGBP},
		{"aed", CurrencyAED},
	}

	for _, testCase := range testTable {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			currency, err := ParseCurrency(testCase.input)

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, currency)
		})
	}

	t.Run("unknown currency", func(t *testing.T) {
		t.Parallel()

		_, err := ParseCurrency("xyz")

		assert.ErrorIs(t, err, ErrUnknownCurrency)
	})
}

func TestParse_City(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		input    string
		expected City
	}{
		{"Moscow", CityMoscow},
		{"moscow", CityMoscow},
		{"SPB", CitySPB},
		{" spb ", CitySPB},
	}

	for _, testCase := range testTable {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			city, err := ParseCity(testCase.input)

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, city)
		})
	}

	t.Run("unknown city", func(t *testing.T) {
		t.Parallel()

		_, err := ParseCity("Atlantis")

		assert.ErrorIs(t, err, ErrUnknownCity)
	})
}

func TestParse_Side(t *testing.T) {
	t.Parallel()

	t.Run("valid sides", func(t *testing.T) {
		t.Parallel()

		buy, err := ParseSide("BUY")
		require.NoError(t, err)
		assert.Equal(t, SideBuy, buy)

		sell, err := ParseSide("sell")
		require.NoError(t, err)
		assert.Equal(t, SideSell, sell)
	})

	t.Run("unknown side", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSide("hold")

		assert.ErrorIs(t, err, ErrUnknownSide)
	})
}

func TestP2POffer_SuccessRate(t *testing.T) {
	t.Parallel()

	t.Run("no orders", func(t *testing.T) {
		t.Parallel()

		offer := &P2POffer{}

		assert.Zero(t, offer.SuccessRate())
	})

	t.Run("partial completion", func(t *testing.T) {
		t.Parallel()

		offer := &P2POffer{
			OrderCount:  200,
			FinishCount: 190,
		}

		assert.InEpsilon(t, 95.0, offer.SuccessRate(), 0.0001)
	})
}

package currency

import (
	"testing"

	"band-market/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRates map[string]float64

func (s stubRates) Rate(code string) (float64, bool) {
	r, ok := s[code]
	return r, ok
}

func (s stubRates) Canonical() string { return "USD" }

func newTestConverter() *Converter {
	rates := stubRates{"USD": 1, "EUR": 0.92, "GBP": 0.79, "JPY": 149.5, "ILS": 3.7}
	return NewConverter(rates, zap.NewNop())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestConverter_ToDisplay(t *testing.T) {
	c := newTestConverter()

	tests := []struct {
		name   string
		amount string
		code   string
		want   string
	}{
		{"canonical", "19.99", "USD", "19.99"},
		{"eur", "100", "EUR", "92"},
		{"jpy", "12.34", "JPY", "1844.83"},
		{"half away from zero", "10.005", "USD", "10.01"},
		{"negative half away from zero", "-10.005", "USD", "-10.01"},
		{"unsupported keeps canonical", "10.005", "XYZ", "10.01"},
		{"unsupported plain", "50000", "XYZ", "50000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.ToDisplay(dec(tc.amount), tc.code)
			assert.True(t, dec(tc.want).Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestConverter_ToCanonical(t *testing.T) {
	c := newTestConverter()

	got, err := c.ToCanonical(dec("123.45"), "USD")
	require.NoError(t, err)
	assert.True(t, dec("123.45").Equal(got))

	// stored as NUMERIC(14,2), so canonical input is rounded like converted input
	got, err = c.ToCanonical(dec("0.016"), "")
	require.NoError(t, err)
	assert.True(t, dec("0.02").Equal(got))

	got, err = c.ToCanonical(dec("0.004"), "usd")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = c.ToCanonical(dec("92"), "EUR")
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(got))

	_, err = c.ToCanonical(dec("10"), "XYZ")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestConverter_RoundTrip(t *testing.T) {
	c := newTestConverter()
	amounts := []string{"0.01", "1", "9.99", "49.5", "1234.56", "50000", "999999.99"}
	codes := []string{"USD", "EUR", "GBP", "JPY", "ILS"}

	for _, code := range codes {
		rate, _ := stubRates{"USD": 1, "EUR": 0.92, "GBP": 0.79, "JPY": 149.5, "ILS": 3.7}.Rate(code)
		// display rounding (half a display cent, in canonical units) plus canonical rounding
		tolerance := 0.005/rate + 0.0051

		for _, a := range amounts {
			amount := dec(a)
			back, err := c.ToCanonical(c.ToDisplay(amount, code), code)
			require.NoError(t, err)

			diff, _ := back.Sub(amount).Abs().Float64()
			assert.LessOrEqual(t, diff, tolerance, "%s %s -> %s", a, code, back)
		}
	}
}

func TestConverter_Display(t *testing.T) {
	c := newTestConverter()

	p := c.Display(dec("10"), "eur")
	assert.Equal(t, "EUR", p.Currency)
	assert.True(t, dec("9.2").Equal(p.Amount))

	p = c.Display(dec("10"), "")
	assert.Equal(t, "USD", p.Currency)

	p = c.Display(dec("10"), "XYZ")
	assert.Equal(t, "USD", p.Currency)
	assert.True(t, dec("10").Equal(p.Amount))
}

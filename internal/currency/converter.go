package currency

import (
	"strings"

	"band-market/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const displayPlaces = 2

// RateSource is the read side of RateCache
type RateSource interface {
	Rate(code string) (float64, bool)
	Canonical() string
}

// Price is a display amount tagged with the currency it is expressed in
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Converter does canonical <-> display arithmetic against the current rate table.
// It never blocks and never touches I/O.
type Converter struct {
	rates RateSource
	log   *zap.Logger
}

func NewConverter(rates RateSource, log *zap.Logger) *Converter {
	return &Converter{
		rates: rates,
		log:   log.With(zap.String("component", "money_converter")),
	}
}

// ToDisplay converts a canonical amount. Unsupported codes get the canonical
// amount back, rounded.
func (c *Converter) ToDisplay(amount decimal.Decimal, code string) decimal.Decimal {
	rate, ok := c.rates.Rate(code)
	if !ok {
		c.log.Warn("Unsupported display currency, showing canonical amount",
			zap.String("currency", code),
			zap.String("canonical", c.rates.Canonical()),
		)
		return amount.Round(displayPlaces)
	}

	return amount.Mul(decimal.NewFromFloat(rate)).Round(displayPlaces)
}

// ToCanonical converts an amount quoted in code into the canonical currency.
func (c *Converter) ToCanonical(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == c.rates.Canonical() {
		return amount.Round(displayPlaces), nil
	}

	rate, ok := c.rates.Rate(code)
	if !ok {
		return decimal.Zero, utils.ErrValidation("unsupported currency " + code)
	}

	return amount.Div(decimal.NewFromFloat(rate)).Round(displayPlaces), nil
}

// Display prices a canonical amount for a client. An empty or unsupported
// code yields the canonical currency.
func (c *Converter) Display(amount decimal.Decimal, code string) Price {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Price{Amount: amount.Round(displayPlaces), Currency: c.rates.Canonical()}
	}

	if _, ok := c.rates.Rate(code); !ok {
		return Price{Amount: c.ToDisplay(amount, code), Currency: c.rates.Canonical()}
	}
	return Price{Amount: c.ToDisplay(amount, code), Currency: code}
}

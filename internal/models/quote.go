package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MarketQuote is a decimal-odds price quoted by the market for a
// selection: payout per unit stake, must be finite and > 1.0.
type MarketQuote struct {
	Price    decimal.Decimal `json:"price" validate:"required"`
	Book     string          `json:"book,omitempty"`
	QuotedAt time.Time       `json:"quoted_at,omitempty"`
}

// Validate ensures the quoted price is usable.
func (q *MarketQuote) Validate() error {
	one := decimal.NewFromInt(1)
	if q.Price.LessThanOrEqual(one) {
		return fmt.Errorf("%w: got %s", ErrInvalidOdds, q.Price.String())
	}
	return nil
}

// PriceFloat returns the price as float64 for probability math.
func (q *MarketQuote) PriceFloat() float64 {
	return q.Price.InexactFloat64()
}

// ImpliedProbability returns 1/price, the market's implied win probability.
func (q *MarketQuote) ImpliedProbability() float64 {
	price := q.PriceFloat()
	if price <= 1.0 {
		return 0
	}
	return 1.0 / price
}

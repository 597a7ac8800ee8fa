package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/prop-edge/internal/models"
)

// ValueCalculator converts the final probability and the market's
// quoted price into implied probability, edge, expected value, fair
// price and mispricing magnitude.
type ValueCalculator struct{}

// NewValueCalculator creates a value calculator.
func NewValueCalculator() *ValueCalculator {
	return &ValueCalculator{}
}

// Assess computes the value assessment. FairPrice and Mispricing use
// decimal arithmetic so price = fair_price + mispricing holds exactly.
func (v *ValueCalculator) Assess(probability float64, quote models.MarketQuote) (*models.ValueAssessment, error) {
	if err := quote.Validate(); err != nil {
		return nil, err
	}
	if probability <= 0 || probability >= 1 {
		return nil, fmt.Errorf("%w: projected probability %.4f outside (0,1)", models.ErrDegenerateInput, probability)
	}

	price := quote.PriceFloat()
	implied := 1.0 / price
	edge := probability - implied
	expectedValue := probability*(price-1.0) - (1.0 - probability)

	fairPrice := decimal.NewFromInt(1).Div(decimal.NewFromFloat(probability))
	mispricing := quote.Price.Sub(fairPrice)

	return &models.ValueAssessment{
		ProjectedProbability: probability,
		ImpliedProbability:   implied,
		Edge:                 edge,
		ExpectedValue:        expectedValue,
		Price:                quote.Price,
		FairPrice:            fairPrice,
		Mispricing:           mispricing,
	}, nil
}

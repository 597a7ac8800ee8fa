package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/models"
)

func quote(price string) models.MarketQuote {
	return models.MarketQuote{Price: decimal.RequireFromString(price)}
}

func TestValueAssessment(t *testing.T) {
	calc := NewValueCalculator()

	// Price 1.43 against a 78.2% projection.
	result, err := calc.Assess(0.782, quote("1.43"))
	require.NoError(t, err)

	assert.InDelta(t, 0.6993, result.ImpliedProbability, 1e-4)
	assert.InDelta(t, 0.0827, result.Edge, 1e-4)
	assert.InDelta(t, 0.1183, result.ExpectedValue, 1e-4)
	assert.True(t, result.IsPositiveEV())
}

func TestValueFairPriceRoundTrip(t *testing.T) {
	calc := NewValueCalculator()

	// price = fair_price + mispricing must hold exactly, not to within
	// float tolerance.
	for _, tt := range []struct {
		probability float64
		price       string
	}{
		{0.782, "1.43"},
		{0.51, "2.04"},
		{0.333333, "3.10"},
		{0.91, "1.09"},
	} {
		result, err := calc.Assess(tt.probability, quote(tt.price))
		require.NoError(t, err)
		assert.True(t, result.FairPrice.Add(result.Mispricing).Equal(result.Price),
			"p=%v price=%s", tt.probability, tt.price)
	}
}

func TestValueNegativeEdge(t *testing.T) {
	calc := NewValueCalculator()

	result, err := calc.Assess(0.40, quote("2.00"))
	require.NoError(t, err)
	assert.Less(t, result.Edge, 0.0)
	assert.Less(t, result.ExpectedValue, 0.0)
	assert.True(t, result.Mispricing.IsNegative())
}

func TestValueInvalidOdds(t *testing.T) {
	calc := NewValueCalculator()

	for _, price := range []string{"1.00", "0.95", "-2"} {
		_, err := calc.Assess(0.6, quote(price))
		require.ErrorIs(t, err, models.ErrInvalidOdds, "price %s", price)
	}
}

func TestValueDegenerateProbability(t *testing.T) {
	calc := NewValueCalculator()

	for _, p := range []float64{0, 1, -0.1, 1.2} {
		_, err := calc.Assess(p, quote("1.80"))
		require.ErrorIs(t, err, models.ErrDegenerateInput, "p=%v", p)
	}
}

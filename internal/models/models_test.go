package models

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketQuoteValidate(t *testing.T) {
	tests := []struct {
		price string
		valid bool
	}{
		{"1.01", true},
		{"2.50", true},
		{"1.00", false},
		{"0.95", false},
		{"-1.50", false},
	}

	for _, tt := range tests {
		quote := MarketQuote{Price: decimal.RequireFromString(tt.price)}
		err := quote.Validate()
		if tt.valid {
			assert.NoError(t, err, "price %s", tt.price)
		} else {
			assert.ErrorIs(t, err, ErrInvalidOdds, "price %s", tt.price)
		}
	}
}

func TestMarketQuoteImpliedProbability(t *testing.T) {
	quote := MarketQuote{Price: decimal.RequireFromString("2.00")}
	assert.InDelta(t, 0.5, quote.ImpliedProbability(), 1e-9)
}

func TestSkipCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{ErrInsufficientData, SkipInsufficientData},
		{fmt.Errorf("wrapped: %w", ErrDegenerateInput), SkipDegenerateInput},
		{fmt.Errorf("%w: got 0.95", ErrInvalidOdds), SkipInvalidOdds},
		{fmt.Errorf("something else"), SkipInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, SkipCodeFor(tt.err))
	}
}

func TestSelectionGroupingKeys(t *testing.T) {
	sel := Selection{EventID: "game-1", EntityID: "player-a", StatCategory: "points"}

	assert.Equal(t, "game-1", sel.EventKey())
	assert.Equal(t, "game-1|player-a", sel.EntityKey())
	assert.Equal(t, "game-1|points", sel.EventStatKey())
	assert.Equal(t, "game-1|player-a|points", sel.EntityStatKey())
}

func TestProjectionMarginSignedBySide(t *testing.T) {
	rec := Recommendation{
		Selection:     Selection{Line: 20.5, Side: SideOver},
		ProjectedMean: 24.0,
	}
	assert.InDelta(t, 3.5, rec.ProjectionMargin(), 1e-9)

	rec.Selection.Side = SideUnder
	assert.InDelta(t, -3.5, rec.ProjectionMargin(), 1e-9)
}

func TestTierRankOrdering(t *testing.T) {
	ordered := []Tier{TierS, TierA, TierB, TierC, TierD}
	for i := 0; i < len(ordered)-1; i++ {
		assert.True(t, ordered[i].BetterThan(ordered[i+1]),
			"%s should outrank %s", ordered[i], ordered[i+1])
	}
}

func TestIsActionable(t *testing.T) {
	for tier, actionable := range map[Tier]bool{
		TierS: true, TierA: true, TierB: true, TierC: false, TierD: false,
	} {
		rec := Recommendation{Risk: RiskTier{Tier: tier}}
		assert.Equal(t, actionable, rec.IsActionable(), "tier %s", tier)
	}
}

func TestConfidenceAssessmentPenalties(t *testing.T) {
	assessment := ConfidenceAssessment{
		Penalties: []ConfidencePenalty{
			{Reason: PenaltyVolatility, Magnitude: 15},
			{Reason: PenaltyRoleChange, Magnitude: 8},
			{Reason: PenaltyCorrelation, Magnitude: 6},
		},
	}
	assert.InDelta(t, 29.0, assessment.TotalPenalty(), 1e-9)
	assert.InDelta(t, 8.0, assessment.PenaltyFor(PenaltyRoleChange), 1e-9)
	assert.Zero(t, assessment.PenaltyFor(PenaltyUsageInstability))
}

func TestObservationSeriesHelpers(t *testing.T) {
	w := 2.0
	series := ObservationSeries{
		Samples: []Sample{{Value: 10}, {Value: 12, Weight: &w}},
		Mode:    OutcomeModeThreshold,
	}
	require.Equal(t, 2, series.Size())
	assert.Equal(t, []float64{10, 12}, series.Values())
	assert.True(t, series.HasExplicitWeights())
}

package models

import "github.com/shopspring/decimal"

// ValueAssessment compares the engine's projected probability against
// the market's quoted price. FairPrice and Mispricing are kept as
// decimals so that price = fair_price + mispricing holds exactly.
type ValueAssessment struct {
	ProjectedProbability float64         `json:"projected_probability" validate:"gte=0,lte=1"`
	ImpliedProbability   float64         `json:"implied_probability" validate:"gte=0,lte=1"`
	Edge                 float64         `json:"edge"`
	ExpectedValue        float64         `json:"expected_value"`
	Price                decimal.Decimal `json:"price"`
	FairPrice            decimal.Decimal `json:"fair_price"`
	Mispricing           decimal.Decimal `json:"mispricing"`
}

// IsPositiveEV reports whether the wager has positive expected value.
func (v *ValueAssessment) IsPositiveEV() bool {
	return v.ExpectedValue > 0
}

// EdgePercent returns the edge expressed in percentage points.
func (v *ValueAssessment) EdgePercent() float64 {
	return v.Edge * 100
}

package models

// PenaltyReason identifies which stage deducted confidence points.
type PenaltyReason string

const (
	PenaltyVolatility       PenaltyReason = "volatility"
	PenaltyRoleChange       PenaltyReason = "role_change"
	PenaltyUsageInstability PenaltyReason = "usage_instability"
	PenaltyCorrelation      PenaltyReason = "correlation"
)

// ConfidencePenalty is one deduction in the confidence audit trail.
// Penalties are kept in application order.
type ConfidencePenalty struct {
	Reason    PenaltyReason `json:"reason"`
	Magnitude float64       `json:"magnitude"`
}

// ConfidenceAssessment records the full confidence computation for a
// candidate: base score, per-stage penalties, the sample-size cap and
// the final capped value. Final = clamp(base - sum(penalties), 0, cap),
// with the cap applied before the correlation penalty.
type ConfidenceAssessment struct {
	Base       float64             `json:"base" validate:"gte=0,lte=100"`
	SampleSize int                 `json:"sample_size" validate:"gte=0"`
	Cap        float64             `json:"cap" validate:"gte=0,lte=100"`
	Penalties  []ConfidencePenalty `json:"penalties"`
	Final      float64             `json:"final" validate:"gte=0,lte=100"`
}

// TotalPenalty returns the sum of all recorded deductions.
func (c *ConfidenceAssessment) TotalPenalty() float64 {
	total := 0.0
	for _, p := range c.Penalties {
		total += p.Magnitude
	}
	return total
}

// PenaltyFor returns the magnitude deducted for a reason, or 0.
func (c *ConfidenceAssessment) PenaltyFor(reason PenaltyReason) float64 {
	total := 0.0
	for _, p := range c.Penalties {
		if p.Reason == reason {
			total += p.Magnitude
		}
	}
	return total
}

package models

// Tier is the discrete quality/risk classification of a candidate.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Reason codes explaining which classification gate fired.
const (
	ReasonSGatePassed          = "s_gate_passed"
	ReasonAGatePassed          = "a_gate_passed"
	ReasonBGatePassed          = "b_gate_passed"
	ReasonNegativeExpectation  = "negative_expectation"
	ReasonLowProbability       = "probability_below_half"
	ReasonDefaultTier          = "no_gate_qualified"
	ReasonEdgeBelowFloor       = "edge_below_floor"
	ReasonConfidenceBelowFloor = "confidence_below_floor"
	ReasonMispricingBelowFloor = "mispricing_below_floor"
	ReasonSampleBelowFloor     = "sample_size_below_floor"
	ReasonExcessiveCorrelation = "excessive_correlation"
)

// RiskTier is the assigned tier plus the reason codes that explain it.
type RiskTier struct {
	Tier    Tier     `json:"tier" validate:"required,oneof=S A B C D"`
	Reasons []string `json:"reasons"`
}

// Rank returns an ordinal for tier comparison, S highest.
func (t Tier) Rank() int {
	switch t {
	case TierS:
		return 5
	case TierA:
		return 4
	case TierB:
		return 3
	case TierC:
		return 2
	case TierD:
		return 1
	default:
		return 0
	}
}

// BetterThan reports whether t outranks other.
func (t Tier) BetterThan(other Tier) bool {
	return t.Rank() > other.Rank()
}

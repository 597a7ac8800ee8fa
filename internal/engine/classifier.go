package engine

import (
	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

// ClassifierInput bundles the final per-candidate signals the tier
// gates are evaluated against.
type ClassifierInput struct {
	Edge                float64
	ExpectedValue       float64
	Probability         float64
	Confidence          float64
	Mispricing          float64
	SampleSize          int
	CorrelationOverride bool
}

// TierClassifier applies ordered gates to assign a discrete quality
// tier. Gates run in strict order and the first match wins:
// excessive-correlation override, S, A, disqualification floors, B, D,
// default C. Every threshold comes from configuration.
type TierClassifier struct {
	cfg config.TierConfig
}

// NewTierClassifier creates a classifier from configuration.
func NewTierClassifier(cfg config.TierConfig) *TierClassifier {
	return &TierClassifier{cfg: cfg}
}

// Classify assigns the tier and collects the reason codes explaining
// which gate fired.
func (c *TierClassifier) Classify(in ClassifierInput) models.RiskTier {
	// The override is consulted before any other gate: a flagged
	// candidate lands on the lowest acceptable tier no matter how
	// favorable its individual score looks.
	if in.CorrelationOverride {
		return models.RiskTier{
			Tier:    models.TierC,
			Reasons: []string{models.ReasonExcessiveCorrelation},
		}
	}

	if in.ExpectedValue >= c.cfg.S.MinEV &&
		in.Edge >= c.cfg.S.MinEdge &&
		in.Probability >= c.cfg.S.MinProbability {
		return models.RiskTier{Tier: models.TierS, Reasons: []string{models.ReasonSGatePassed}}
	}

	// The probability gate is mandatory for tier A: a candidate meeting
	// EV/edge but missing the floor falls through to the B evaluation.
	if in.ExpectedValue >= c.cfg.A.MinEV &&
		in.Edge >= c.cfg.A.MinEdge &&
		in.Probability >= c.cfg.A.MinProbability {
		return models.RiskTier{Tier: models.TierA, Reasons: []string{models.ReasonAGatePassed}}
	}

	// Disqualification is evaluated before tier B: a broken floor
	// force-classifies C even when the B gates would pass.
	if reasons := c.disqualificationReasons(in); len(reasons) > 0 {
		return models.RiskTier{Tier: models.TierC, Reasons: reasons}
	}

	if in.ExpectedValue >= c.cfg.B.MinEV && in.Edge >= c.cfg.B.MinEdge {
		return models.RiskTier{Tier: models.TierB, Reasons: []string{models.ReasonBGatePassed}}
	}

	if in.ExpectedValue < 0 {
		return models.RiskTier{Tier: models.TierD, Reasons: []string{models.ReasonNegativeExpectation}}
	}
	if in.Probability < 0.5 {
		return models.RiskTier{Tier: models.TierD, Reasons: []string{models.ReasonLowProbability}}
	}

	return models.RiskTier{Tier: models.TierC, Reasons: []string{models.ReasonDefaultTier}}
}

// disqualificationReasons collects every floor the candidate breaks.
func (c *TierClassifier) disqualificationReasons(in ClassifierInput) []string {
	floors := c.cfg.Floors
	var reasons []string

	if in.Edge < floors.MinEdge {
		reasons = append(reasons, models.ReasonEdgeBelowFloor)
	}
	if in.Confidence < floors.MinConfidence {
		reasons = append(reasons, models.ReasonConfidenceBelowFloor)
	}
	if in.Mispricing < floors.MinMispricing {
		reasons = append(reasons, models.ReasonMispricingBelowFloor)
	}
	if in.SampleSize < floors.MinSampleSize {
		reasons = append(reasons, models.ReasonSampleBelowFloor)
	}

	return reasons
}

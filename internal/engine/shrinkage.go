package engine

import (
	"github.com/yourusername/prop-edge/internal/config"
)

// ShrinkageEstimator pulls a small-sample estimate toward a prior, with
// pull strength inversely related to sample size. Prevents small-n
// flukes from producing extreme probabilities.
type ShrinkageEstimator struct {
	cfg config.ShrinkageConfig
}

// NewShrinkageEstimator creates an estimator from configuration.
// The bracket table is validated at startup: prior weights strictly
// decrease as sample size grows, so the prior's influence vanishes as
// evidence accumulates.
func NewShrinkageEstimator(cfg config.ShrinkageConfig) *ShrinkageEstimator {
	return &ShrinkageEstimator{cfg: cfg}
}

// Shrink returns (estimate*n + prior*weight) / (n + weight).
// n >= 1 is guaranteed by the aggregator, so the denominator is
// always positive.
func (e *ShrinkageEstimator) Shrink(estimate float64, n int, prior float64) float64 {
	weight := e.cfg.PriorWeightFor(n)
	return (estimate*float64(n) + prior*weight) / (float64(n) + weight)
}

// PriorFor returns the candidate's override prior when supplied,
// otherwise the configured default.
func (e *ShrinkageEstimator) PriorFor(override *float64) float64 {
	if override != nil {
		return *override
	}
	return e.cfg.DefaultPrior
}

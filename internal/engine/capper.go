package engine

import (
	"github.com/yourusername/prop-edge/internal/config"
)

// ConfidenceCapper enforces the sample-size ceiling on confidence.
// The cap is an absolute ceiling no amount of positive signal can
// exceed: it is applied after all additive penalties and before the
// correlation penalty, and that ordering is fixed by the pipeline.
type ConfidenceCapper struct {
	cfg config.ConfidenceConfig
}

// NewConfidenceCapper creates a capper from configuration.
func NewConfidenceCapper(cfg config.ConfidenceConfig) *ConfidenceCapper {
	return &ConfidenceCapper{cfg: cfg}
}

// Base computes the pre-penalty confidence from the adjusted
// probability and sample size.
func (c *ConfidenceCapper) Base(probability float64, n int) float64 {
	sampleBonus := float64(n)
	if n > c.cfg.SampleBonusCap {
		sampleBonus = float64(c.cfg.SampleBonusCap)
	}

	base := c.cfg.Intercept +
		(probability-0.5)*c.cfg.ProbabilitySlope +
		sampleBonus*c.cfg.SamplePoint

	return clamp(base, 0, 100)
}

// Cap returns min(raw, cap(n)) together with the cap used. cap(n) is a
// non-decreasing step function of n with fixed breakpoints.
func (c *ConfidenceCapper) Cap(raw float64, n int) (float64, float64) {
	cap := c.cfg.CapFor(n)
	if raw > cap {
		return cap, cap
	}
	if raw < 0 {
		return 0, cap
	}
	return raw, cap
}

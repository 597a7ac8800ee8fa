package engine

import (
	"math"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

// ContextAdjustment is the combined contextual correction: one bounded
// multiplicative probability factor plus any instability penalties.
type ContextAdjustment struct {
	Factor        float64
	PaceFactor    float64
	DefenseFactor float64
	UsageFactor   float64
	Penalties     []models.ConfidencePenalty
	Warnings      []string
}

// ContextAdjuster combines independent contextual multipliers into a
// single bounded probability adjustment. Each factor is clamped on its
// own, and the product is clamped again to a global bound so stacking
// factors cannot compound past the configured swing.
type ContextAdjuster struct {
	cfg config.ContextConfig
}

// NewContextAdjuster creates an adjuster from configuration.
func NewContextAdjuster(cfg config.ContextConfig) *ContextAdjuster {
	return &ContextAdjuster{cfg: cfg}
}

// Adjust computes the combined factor and instability penalties for a
// candidate's context. Missing inputs leave the corresponding factor
// neutral rather than guessing.
func (c *ContextAdjuster) Adjust(factors models.ContextFactors) ContextAdjustment {
	adjustment := ContextAdjustment{
		PaceFactor:    1.0,
		DefenseFactor: 1.0,
		UsageFactor:   1.0,
	}

	if factors.HasPaceData() {
		pace := ((factors.TeamPace + factors.OpponentPace) / 2.0) / factors.LeaguePace
		adjustment.PaceFactor = clamp(pace, c.cfg.PaceClampMin, c.cfg.PaceClampMax)
	} else if factors.TeamPace > 0 || factors.OpponentPace > 0 {
		adjustment.Warnings = append(adjustment.Warnings, "pace data incomplete, pace factor left neutral")
	}

	if factors.OpposingDefenseRating > 0 {
		// A rating above 1.0 means a tougher defense, which suppresses
		// the projection.
		defense := 1.0 / factors.OpposingDefenseRating
		adjustment.DefenseFactor = clamp(defense, c.cfg.DefenseClampMin, c.cfg.DefenseClampMax)
	}

	if factors.UsageShift != 0 && c.cfg.UsageWeight > 0 {
		usage := 1.0 + factors.UsageShift*c.cfg.UsageWeight
		adjustment.UsageFactor = clamp(usage, c.cfg.UsageClampMin, c.cfg.UsageClampMax)
	}

	combined := adjustment.PaceFactor * adjustment.DefenseFactor * adjustment.UsageFactor
	adjustment.Factor = clamp(combined, c.cfg.CombinedClampMin, c.cfg.CombinedClampMax)

	// Instability penalties are independent of the probability-side
	// adjustment: a role change always costs the fixed penalty.
	if factors.RoleChanged {
		adjustment.Penalties = append(adjustment.Penalties, models.ConfidencePenalty{
			Reason:    models.PenaltyRoleChange,
			Magnitude: c.cfg.RoleChangePenalty,
		})
	}
	if math.Abs(factors.UsageShift) >= c.cfg.UsageShiftThreshold {
		adjustment.Penalties = append(adjustment.Penalties, models.ConfidencePenalty{
			Reason:    models.PenaltyUsageInstability,
			Magnitude: c.cfg.UsagePenalty,
		})
	}

	return adjustment
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clamp01(value float64) float64 {
	return clamp(value, 0, 1)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

func TestContextNeutralWhenMissing(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	adjustment := adjuster.Adjust(models.ContextFactors{})
	assert.Equal(t, 1.0, adjustment.Factor)
	assert.Empty(t, adjustment.Penalties)
}

func TestContextPaceFactorClamped(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	// Extreme tempo mismatch clamps to the configured bound.
	adjustment := adjuster.Adjust(models.ContextFactors{
		TeamPace:     130,
		OpponentPace: 130,
		LeaguePace:   100,
	})
	assert.Equal(t, 1.10, adjustment.PaceFactor)
}

func TestContextPartialPaceDataLeftNeutral(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	adjustment := adjuster.Adjust(models.ContextFactors{TeamPace: 102})
	assert.Equal(t, 1.0, adjustment.PaceFactor)
	assert.NotEmpty(t, adjustment.Warnings)
}

func TestContextDefenseFactor(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	// A tougher-than-average defense suppresses the projection.
	tough := adjuster.Adjust(models.ContextFactors{OpposingDefenseRating: 1.05})
	assert.InDelta(t, 1.0/1.05, tough.DefenseFactor, 1e-9)

	// An extreme rating clamps.
	extreme := adjuster.Adjust(models.ContextFactors{OpposingDefenseRating: 2.0})
	assert.Equal(t, 0.85, extreme.DefenseFactor)
}

func TestContextCombinedFactorGloballyClamped(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	// Each factor is individually legal but the product would exceed the
	// combined bound.
	adjustment := adjuster.Adjust(models.ContextFactors{
		TeamPace:              115,
		OpponentPace:          115,
		LeaguePace:            100,
		OpposingDefenseRating: 0.90,
		UsageShift:            0.15,
	})
	assert.Equal(t, 1.10, adjustment.Factor)
}

func TestContextRoleChangePenalty(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	adjustment := adjuster.Adjust(models.ContextFactors{RoleChanged: true})
	assert.Len(t, adjustment.Penalties, 1)
	assert.Equal(t, models.PenaltyRoleChange, adjustment.Penalties[0].Reason)
	assert.Equal(t, 8.0, adjustment.Penalties[0].Magnitude)
	// The probability factor is untouched by instability penalties.
	assert.Equal(t, 1.0, adjustment.Factor)
}

func TestContextUsageShiftPenalty(t *testing.T) {
	adjuster := NewContextAdjuster(config.DefaultEngine().Context)

	tests := []struct {
		name      string
		shift     float64
		penalized bool
	}{
		{"below threshold", 0.10, false},
		{"at threshold", 0.20, true},
		{"negative shift", -0.25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adjustment := adjuster.Adjust(models.ContextFactors{UsageShift: tt.shift})
			found := false
			for _, p := range adjustment.Penalties {
				if p.Reason == models.PenaltyUsageInstability {
					found = true
					assert.Equal(t, 5.0, p.Magnitude)
				}
			}
			assert.Equal(t, tt.penalized, found)
		})
	}
}

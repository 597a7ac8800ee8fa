package engine

import (
	"github.com/yourusername/prop-edge/internal/config"
)

// VolatilityScore is the outcome of the dispersion check: a
// coefficient of variation and the confidence penalty it maps to.
type VolatilityScore struct {
	CV           float64
	Penalty      float64
	UsedFallback bool
}

// VolatilityScorer maps a coefficient of variation to a confidence
// penalty. The mapping is piecewise-linear between configured band
// boundaries: continuous in CV within each band, monotonic overall and
// capped at the configured maximum. (Discrete steps were rejected to
// avoid cliff-edge instability near band boundaries.)
type VolatilityScorer struct {
	cfg config.VolatilityConfig
}

// NewVolatilityScorer creates a scorer from configuration.
func NewVolatilityScorer(cfg config.VolatilityConfig) *VolatilityScorer {
	return &VolatilityScorer{cfg: cfg}
}

// Score computes CV = stddev/mean and the resulting penalty.
// A non-positive mean makes CV undefined; the scorer falls back to the
// maximal penalty and flags the fallback so the assembler records a
// warning.
func (s *VolatilityScorer) Score(stddev, mean float64) VolatilityScore {
	if mean <= 0 {
		return VolatilityScore{
			CV:           0,
			Penalty:      s.cfg.MaxPenalty,
			UsedFallback: true,
		}
	}

	cv := stddev / mean
	return VolatilityScore{CV: cv, Penalty: s.penaltyFor(cv)}
}

// penaltyFor interpolates linearly between band boundaries.
func (s *VolatilityScorer) penaltyFor(cv float64) float64 {
	bands := s.cfg.Bands

	if cv <= bands[0].CV {
		return bands[0].Penalty
	}

	for i := 1; i < len(bands); i++ {
		lower, upper := bands[i-1], bands[i]
		if cv <= upper.CV {
			span := upper.CV - lower.CV
			fraction := (cv - lower.CV) / span
			return lower.Penalty + fraction*(upper.Penalty-lower.Penalty)
		}
	}

	last := bands[len(bands)-1].Penalty
	if last > s.cfg.MaxPenalty {
		return s.cfg.MaxPenalty
	}
	return last
}

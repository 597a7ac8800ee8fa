package engine

import (
	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

// CorrelationInput is the per-candidate view the penalizer needs: the
// selection's grouping keys and the candidate's own projection margin
// (context-adjusted projection minus the wagered line, in native units,
// signed so positive favors the wagered side).
type CorrelationInput struct {
	Selection models.Selection
	Margin    float64
}

// CorrelationResult is the batch-scoped outcome for one candidate.
type CorrelationResult struct {
	Penalty        float64
	Counterparties int
	SharedOnEvent  int
	Overridden     bool
}

// CorrelationPenalizer detects shared-outcome risk across a batch of
// candidates. It is a barrier step: it must observe the complete
// candidate set for an event grouping before emitting any penalty.
type CorrelationPenalizer struct {
	cfg config.CorrelationConfig
}

// NewCorrelationPenalizer creates a penalizer from configuration.
func NewCorrelationPenalizer(cfg config.CorrelationConfig) *CorrelationPenalizer {
	return &CorrelationPenalizer{cfg: cfg}
}

// Penalize computes, for each candidate, a confidence penalty scaled by
// its own margin strength and the tightest relationship it shares with
// each counterparty. Results are positional with the inputs.
//
// When a pair matches several related keys (same entity AND same
// statistic also implies same event) only the strictest applicable
// penalty counts; penalties across distinct counterparties stack up to
// the configured ceiling. Any event grouping holding more than the
// allowed number of candidates flags every member for the
// excessive-correlation override.
func (p *CorrelationPenalizer) Penalize(inputs []CorrelationInput) []CorrelationResult {
	results := make([]CorrelationResult, len(inputs))

	eventCounts := make(map[string]int)
	for _, input := range inputs {
		eventCounts[input.Selection.EventKey()]++
	}

	for i := range inputs {
		results[i].SharedOnEvent = eventCounts[inputs[i].Selection.EventKey()]
		if results[i].SharedOnEvent > p.cfg.MaxSharedPerEvent {
			results[i].Overridden = true
		}

		total := 0.0
		for j := range inputs {
			if i == j {
				continue
			}
			weight := p.relationshipWeight(&inputs[i].Selection, &inputs[j].Selection)
			if weight == 0 {
				continue
			}
			results[i].Counterparties++
			total += p.bandPenalty(inputs[i].Margin) * weight
		}

		if total > p.cfg.MaxTotalPenalty {
			total = p.cfg.MaxTotalPenalty
		}
		results[i].Penalty = total
	}

	return results
}

// relationshipWeight returns the strictest weight among the grouping
// keys two selections share, or 0 when they are unrelated. The keys are
// nested descriptions of one relationship, so the maximum applies
// rather than the sum.
func (p *CorrelationPenalizer) relationshipWeight(a, b *models.Selection) float64 {
	weight := 0.0
	if a.EventKey() == b.EventKey() && p.cfg.EventKeyWeight > weight {
		weight = p.cfg.EventKeyWeight
	} else if a.EventKey() != b.EventKey() {
		return 0
	}
	if a.EntityKey() == b.EntityKey() && p.cfg.EntityKeyWeight > weight {
		weight = p.cfg.EntityKeyWeight
	}
	if a.EventStatKey() == b.EventStatKey() && p.cfg.EventStatKeyWeight > weight {
		weight = p.cfg.EventStatKeyWeight
	}
	if a.EntityStatKey() == b.EntityStatKey() && p.cfg.EntityStatKeyWeight > weight {
		weight = p.cfg.EntityStatKeyWeight
	}
	return weight
}

// bandPenalty maps the candidate's own margin to a penalty: a weak
// margin leaves the most exposure to the shared outcome and earns the
// largest penalty.
func (p *CorrelationPenalizer) bandPenalty(margin float64) float64 {
	switch {
	case margin < p.cfg.Bands.WeakMax:
		return p.cfg.Penalties.Weak
	case margin < p.cfg.Bands.ModerateMax:
		return p.cfg.Penalties.Moderate
	default:
		return p.cfg.Penalties.Strong
	}
}

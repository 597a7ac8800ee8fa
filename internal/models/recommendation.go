package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Recommendation is the immutable decision record emitted for one
// candidate. It carries every intermediate assessment so a reviewer can
// reconstruct how the tier was reached. A re-evaluation produces a new
// record; nothing mutates an existing one.
type Recommendation struct {
	ID          uuid.UUID            `db:"id" json:"id"`
	CandidateID string               `db:"candidate_id" json:"candidate_id"`
	Selection   Selection            `db:"selection" json:"selection"`
	Confidence  ConfidenceAssessment `db:"confidence" json:"confidence"`
	Value       ValueAssessment      `db:"value" json:"value"`
	Risk        RiskTier             `db:"risk" json:"risk"`
	// ProjectedMean is the context-adjusted point estimate in the
	// statistic's native unit, used for correlation margins.
	ProjectedMean float64   `db:"projected_mean" json:"projected_mean"`
	Warnings      []string  `db:"warnings" json:"warnings,omitempty"`
	EvaluatedAt   time.Time `db:"evaluated_at" json:"evaluated_at"`
}

// Skip reason codes.
const (
	SkipInsufficientData = "insufficient_data"
	SkipDegenerateInput  = "degenerate_input"
	SkipInvalidOdds      = "invalid_odds"
	SkipValidation       = "validation"
	SkipInternal         = "internal"
)

// SkippedCandidate records an explicit omission: a candidate that could
// not be evaluated, with a stable code and the underlying reason.
// Callers never receive a silently degraded result in its place.
type SkippedCandidate struct {
	CandidateID string `json:"candidate_id"`
	Code        string `json:"code"`
	Reason      string `json:"reason"`
}

// SkipCodeFor maps an evaluation error to its stable skip code.
func SkipCodeFor(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return SkipInsufficientData
	case errors.Is(err, ErrDegenerateInput):
		return SkipDegenerateInput
	case errors.Is(err, ErrInvalidOdds):
		return SkipInvalidOdds
	default:
		return SkipInternal
	}
}

// ProjectionMargin returns the distance between the projected mean and
// the wagered line, in the statistic's native unit, signed so that a
// positive margin favors the wagered side.
func (r *Recommendation) ProjectionMargin() float64 {
	margin := r.ProjectedMean - r.Selection.Line
	if r.Selection.Side == SideUnder {
		margin = -margin
	}
	return margin
}

// IsActionable reports whether the recommendation cleared the reject tiers.
func (r *Recommendation) IsActionable() bool {
	return r.Risk.Tier == TierS || r.Risk.Tier == TierA || r.Risk.Tier == TierB
}

package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-edge/internal/models"
)

// recommendationNamespace seeds deterministic recommendation IDs:
// identical inputs always produce the identical record.
var recommendationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("prop-edge/recommendation"))

// AssembleInput collects every intermediate artifact of one pipeline
// run. Field ordering of the emitted record is fixed by the
// Recommendation struct; warnings arrive in stage order.
type AssembleInput struct {
	CandidateID   string
	Selection     models.Selection
	InputDigest   string
	Confidence    models.ConfidenceAssessment
	Value         *models.ValueAssessment
	Risk          models.RiskTier
	ProjectedMean float64
	Warnings      []string
	EvaluatedAt   time.Time
}

// RecommendationAssembler packages pipeline outputs into the immutable
// decision record. It exclusively owns the emitted Recommendation;
// upstream components own only their intermediate artifacts.
type RecommendationAssembler struct{}

// NewRecommendationAssembler creates an assembler.
func NewRecommendationAssembler() *RecommendationAssembler {
	return &RecommendationAssembler{}
}

// Assemble builds the final record. Pure composition, no recomputation.
func (a *RecommendationAssembler) Assemble(in AssembleInput) *models.Recommendation {
	return &models.Recommendation{
		ID:            uuid.NewSHA1(recommendationNamespace, []byte(in.CandidateID+":"+in.InputDigest)),
		CandidateID:   in.CandidateID,
		Selection:     in.Selection,
		Confidence:    in.Confidence,
		Value:         *in.Value,
		Risk:          in.Risk,
		ProjectedMean: in.ProjectedMean,
		Warnings:      in.Warnings,
		EvaluatedAt:   in.EvaluatedAt,
	}
}

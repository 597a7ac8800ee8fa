package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

// BatchResult is the outcome of one evaluation request: a
// recommendation per evaluable candidate, positional with the input
// batch, plus an explicit skip record for every omission.
type BatchResult struct {
	BatchID         uuid.UUID                 `json:"batch_id"`
	Recommendations []*models.Recommendation  `json:"recommendations"`
	Skipped         []models.SkippedCandidate `json:"skipped,omitempty"`
	EvaluatedAt     time.Time                 `json:"evaluated_at"`
	Duration        time.Duration             `json:"-"`
}

// Engine wires the pipeline stages together. It is a pure computation:
// no shared mutable state, deterministic for identical inputs, and safe
// to call concurrently.
type Engine struct {
	cfg config.EngineConfig

	aggregator  *ObservationAggregator
	shrinkage   *ShrinkageEstimator
	volatility  *VolatilityScorer
	context     *ContextAdjuster
	capper      *ConfidenceCapper
	correlation *CorrelationPenalizer
	value       *ValueCalculator
	classifier  *TierClassifier
	assembler   *RecommendationAssembler

	logger *logrus.Logger
	now    func() time.Time
}

// NewEngine validates the threshold tables and constructs the pipeline.
// Configuration errors are fatal here, never at per-candidate
// evaluation time.
func NewEngine(cfg config.EngineConfig, log *logrus.Logger) (*Engine, error) {
	if err := validateEngineConfig(&cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	return &Engine{
		cfg:         cfg,
		aggregator:  NewObservationAggregator(cfg.Aggregation),
		shrinkage:   NewShrinkageEstimator(cfg.Shrinkage),
		volatility:  NewVolatilityScorer(cfg.Volatility),
		context:     NewContextAdjuster(cfg.Context),
		capper:      NewConfidenceCapper(cfg.Confidence),
		correlation: NewCorrelationPenalizer(cfg.Correlation),
		value:       NewValueCalculator(),
		classifier:  NewTierClassifier(cfg.Tiers),
		assembler:   NewRecommendationAssembler(),
		logger:      log,
		now:         time.Now,
	}, nil
}

// candidateState carries a candidate's intermediate artifacts through
// the pipeline for the duration of one run.
type candidateState struct {
	input  *models.CandidateInput
	digest string

	aggregate     *Aggregate
	probability   float64
	projectedMean float64
	volatility    VolatilityScore
	contextAdj    ContextAdjustment

	baseConfidence   float64
	cappedConfidence float64
	cap              float64
	penalties        []models.ConfidencePenalty
	warnings         []string

	err error
}

// Evaluate runs the full pipeline over a batch. Per-candidate stages
// up to the confidence cap run concurrently; the correlation stage is a
// barrier over the whole batch; classification and assembly complete
// per candidate afterwards. Per-candidate errors never abort the
// batch: the candidate is skipped with an explicit reason.
func (e *Engine) Evaluate(ctx context.Context, batch []models.CandidateInput) (*BatchResult, error) {
	start := e.now()
	states := make([]*candidateState, len(batch))

	// Stages 1-5 are independent across candidates.
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.MaxConcurrency)
	for i := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int) {
			defer wg.Done()
			defer func() { <-sem }()
			states[index] = e.runPerCandidate(&batch[index])
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Correlation needs the complete set of evaluable candidates.
	evaluable := make([]*candidateState, 0, len(states))
	for _, state := range states {
		if state.err == nil {
			evaluable = append(evaluable, state)
		}
	}
	correlationResults := e.correlation.Penalize(correlationInputs(evaluable))

	result := &BatchResult{
		BatchID:     uuid.New(),
		EvaluatedAt: start.UTC(),
	}

	corrIndex := 0
	for _, state := range states {
		if state.err != nil {
			result.Skipped = append(result.Skipped, models.SkippedCandidate{
				CandidateID: state.input.ID,
				Code:        models.SkipCodeFor(state.err),
				Reason:      state.err.Error(),
			})
			e.logger.WithFields(logrus.Fields{
				"candidate_id": state.input.ID,
				"error":        state.err.Error(),
			}).Warn("Candidate skipped")
			continue
		}

		rec, err := e.finishCandidate(state, correlationResults[corrIndex])
		corrIndex++
		if err != nil {
			result.Skipped = append(result.Skipped, models.SkippedCandidate{
				CandidateID: state.input.ID,
				Code:        models.SkipCodeFor(err),
				Reason:      err.Error(),
			})
			e.logger.WithFields(logrus.Fields{
				"candidate_id": state.input.ID,
				"error":        err.Error(),
			}).Warn("Candidate skipped")
			continue
		}
		rec.EvaluatedAt = result.EvaluatedAt
		result.Recommendations = append(result.Recommendations, rec)
	}

	result.Duration = e.now().Sub(start)
	e.logger.WithFields(logrus.Fields{
		"batch_id":    result.BatchID,
		"candidates":  len(batch),
		"emitted":     len(result.Recommendations),
		"skipped":     len(result.Skipped),
		"duration_ms": result.Duration.Milliseconds(),
	}).Debug("Batch evaluated")

	return result, nil
}

// runPerCandidate executes stages 1-5 for one candidate.
func (e *Engine) runPerCandidate(input *models.CandidateInput) *candidateState {
	state := &candidateState{input: input, digest: inputDigest(input)}

	// Reject unusable quotes up front so the candidate never counts
	// toward correlation groupings.
	if err := input.Quote.Validate(); err != nil {
		state.err = err
		return state
	}

	aggregate, err := e.aggregator.Aggregate(&input.Observations)
	if err != nil {
		state.err = err
		return state
	}
	state.aggregate = aggregate
	state.warnings = append(state.warnings, aggregate.Warnings...)

	prior := e.shrinkage.PriorFor(input.PriorOverride)
	shrunk := e.shrinkage.Shrink(aggregate.Rate, aggregate.SampleSize, prior)

	state.volatility = e.volatility.Score(aggregate.StdDev, aggregate.Mean)
	if state.volatility.UsedFallback {
		state.warnings = append(state.warnings, "volatility fallback: non-positive mean, maximal penalty applied")
	}

	state.contextAdj = e.context.Adjust(input.Context)
	state.warnings = append(state.warnings, state.contextAdj.Warnings...)
	state.probability = clamp01(shrunk * state.contextAdj.Factor)
	state.projectedMean = aggregate.Mean * state.contextAdj.Factor

	// Confidence: base, additive penalties, then the absolute ceiling.
	state.baseConfidence = e.capper.Base(state.probability, aggregate.SampleSize)
	state.penalties = append(state.penalties, models.ConfidencePenalty{
		Reason:    models.PenaltyVolatility,
		Magnitude: state.volatility.Penalty,
	})
	state.penalties = append(state.penalties, state.contextAdj.Penalties...)

	raw := state.baseConfidence
	for _, penalty := range state.penalties {
		raw -= penalty.Magnitude
	}
	state.cappedConfidence, state.cap = e.capper.Cap(raw, aggregate.SampleSize)

	return state
}

// finishCandidate applies the correlation outcome and runs stages 7-9.
func (e *Engine) finishCandidate(state *candidateState, correlation CorrelationResult) (*models.Recommendation, error) {
	penalties := state.penalties
	final := state.cappedConfidence
	if correlation.Penalty > 0 {
		penalties = append(penalties, models.ConfidencePenalty{
			Reason:    models.PenaltyCorrelation,
			Magnitude: correlation.Penalty,
		})
		final = clamp(final-correlation.Penalty, 0, state.cap)
	}

	warnings := state.warnings
	if correlation.Overridden {
		warnings = append(warnings, fmt.Sprintf(
			"excessive correlation: %d candidates share event %s",
			correlation.SharedOnEvent, state.input.Selection.EventID))
	}

	valueAssessment, err := e.value.Assess(state.probability, state.input.Quote)
	if err != nil {
		return nil, err
	}

	risk := e.classifier.Classify(ClassifierInput{
		Edge:                valueAssessment.Edge,
		ExpectedValue:       valueAssessment.ExpectedValue,
		Probability:         valueAssessment.ProjectedProbability,
		Confidence:          final,
		Mispricing:          valueAssessment.Mispricing.InexactFloat64(),
		SampleSize:          state.aggregate.SampleSize,
		CorrelationOverride: correlation.Overridden,
	})

	return e.assembler.Assemble(AssembleInput{
		CandidateID: state.input.ID,
		Selection:   state.input.Selection,
		InputDigest: state.digest,
		Confidence: models.ConfidenceAssessment{
			Base:       state.baseConfidence,
			SampleSize: state.aggregate.SampleSize,
			Cap:        state.cap,
			Penalties:  penalties,
			Final:      final,
		},
		Value:         valueAssessment,
		Risk:          risk,
		ProjectedMean: state.projectedMean,
		Warnings:      warnings,
	}), nil
}

func correlationInputs(states []*candidateState) []CorrelationInput {
	inputs := make([]CorrelationInput, len(states))
	for i, state := range states {
		margin := state.projectedMean - state.input.Selection.Line
		if state.input.Selection.Side == models.SideUnder {
			margin = -margin
		}
		inputs[i] = CorrelationInput{
			Selection: state.input.Selection,
			Margin:    margin,
		}
	}
	return inputs
}

// inputDigest is a stable fingerprint of a candidate's full input,
// used for deterministic recommendation IDs and cache keys.
func inputDigest(input *models.CandidateInput) string {
	data, err := json.Marshal(input)
	if err != nil {
		return input.ID
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Digest exposes the candidate fingerprint for memoization layers.
func Digest(input *models.CandidateInput) string {
	return inputDigest(input)
}

// validateEngineConfig delegates to the config package's threshold
// checks so a hand-built EngineConfig gets the same startup guarantees
// as a loaded one.
func validateEngineConfig(cfg *config.EngineConfig) error {
	return config.ValidateEngine(cfg)
}

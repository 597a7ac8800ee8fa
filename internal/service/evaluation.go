// Package service composes the valuation engine with caching, metrics,
// audit logging, persistence and webhook notification.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/engine"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/notifier"
	"github.com/yourusername/prop-edge/internal/repository"
)

// EvaluationService is the application-facing entry point: it
// validates candidates, memoizes batch results (the engine is pure, so
// identical inputs always produce identical outputs), records metrics
// and audit entries, and hands results to the optional store and
// webhook notifier.
type EvaluationService struct {
	engine    *engine.Engine
	cache     *cache.Cache
	useCache  bool
	validator *config.CustomValidator
	audit     *logger.AuditLogger
	logger    *logrus.Logger
	repo      repository.RecommendationRepository
	notifier  *notifier.WebhookNotifier
}

// NewEvaluationService creates the service. repo and webhookNotifier
// are optional; pass nil to disable persistence or notification.
func NewEvaluationService(
	eng *engine.Engine,
	cacheCfg config.CacheConfig,
	log *logrus.Logger,
	repo repository.RecommendationRepository,
	webhookNotifier *notifier.WebhookNotifier,
) *EvaluationService {
	ttl := time.Duration(cacheCfg.TTLSeconds) * time.Second

	return &EvaluationService{
		engine:    eng,
		cache:     cache.New(ttl, ttl*2),
		useCache:  cacheCfg.Enabled,
		validator: config.NewValidator(),
		audit:     logger.NewAuditLogger(log),
		logger:    log,
		repo:      repo,
		notifier:  webhookNotifier,
	}
}

// Evaluate runs one batch through the engine. Candidates failing input
// validation are skipped explicitly, never silently dropped.
func (s *EvaluationService) Evaluate(ctx context.Context, batch []models.CandidateInput) (*engine.BatchResult, error) {
	valid := make([]models.CandidateInput, 0, len(batch))
	var invalid []models.SkippedCandidate

	for i := range batch {
		if err := s.validator.ValidateCandidate(&batch[i]); err != nil {
			invalid = append(invalid, models.SkippedCandidate{
				CandidateID: batch[i].ID,
				Code:        models.SkipValidation,
				Reason:      fmt.Sprintf("input validation failed: %v", err),
			})
			continue
		}
		valid = append(valid, batch[i])
	}

	result, err := s.evaluateCached(ctx, valid)
	if err != nil {
		return nil, err
	}
	if len(invalid) > 0 {
		// Copy before appending so a cached result is never mutated.
		combined := *result
		combined.Skipped = append(append([]models.SkippedCandidate{}, result.Skipped...), invalid...)
		result = &combined
	}

	s.record(result, len(batch))

	if s.repo != nil && len(result.Recommendations) > 0 {
		if err := s.repo.CreateBatch(ctx, result.Recommendations); err != nil {
			// Persistence is advisory; the evaluation already succeeded.
			s.logger.WithError(err).Error("Failed to persist recommendations")
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyBatch(ctx, result.Recommendations)
	}

	return result, nil
}

// evaluateCached memoizes by a fingerprint of all candidate inputs.
func (s *EvaluationService) evaluateCached(ctx context.Context, batch []models.CandidateInput) (*engine.BatchResult, error) {
	if !s.useCache {
		return s.engine.Evaluate(ctx, batch)
	}

	key := batchKey(batch)
	if cached, found := s.cache.Get(key); found {
		if result, ok := cached.(*engine.BatchResult); ok {
			metrics.RecordCacheHit()
			s.logger.WithField("batch_key", key[:12]).Debug("Evaluation cache hit")
			return result, nil
		}
	}
	metrics.RecordCacheMiss()

	result, err := s.engine.Evaluate(ctx, batch)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

// PurgeCache drops all memoized results; the scheduler calls this when
// upstream data is known to have refreshed.
func (s *EvaluationService) PurgeCache() {
	s.cache.Flush()
	s.logger.Debug("Evaluation cache purged")
}

func (s *EvaluationService) record(result *engine.BatchResult, batchSize int) {
	metrics.RecordBatchEvaluated(batchSize, result.Duration.Seconds())

	for _, rec := range result.Recommendations {
		metrics.RecordRecommendation(string(rec.Risk.Tier), rec.Confidence.Final)
		s.audit.LogRecommendation(rec)

		for _, reason := range rec.Risk.Reasons {
			if reason == models.ReasonExcessiveCorrelation {
				metrics.RecordCorrelationOverride()
				s.audit.LogCorrelationOverride(rec.CandidateID, rec.Selection.EventID, 0)
			}
		}
	}
	for _, skip := range result.Skipped {
		metrics.RecordSkip(skip.Code)
		s.audit.LogCandidateSkipped(skip.CandidateID, skip.Reason)
	}

	s.audit.LogBatchEvaluated(result.BatchID.String(), batchSize,
		len(result.Recommendations), len(result.Skipped), result.Duration)
}

// batchKey fingerprints a batch: order matters because output ordering
// is positional with input ordering.
func batchKey(batch []models.CandidateInput) string {
	var b strings.Builder
	for i := range batch {
		b.WriteString(engine.Digest(&batch[i]))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

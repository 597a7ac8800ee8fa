// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/models"
)

// AuditLogger provides a dedicated audit trail for every decision the
// engine emits or declines to emit.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRecommendation logs an emitted decision record.
func (al *AuditLogger) LogRecommendation(rec *models.Recommendation) {
	al.WithFields(logrus.Fields{
		"recommendation_id": rec.ID,
		"candidate_id":      rec.CandidateID,
		"event_id":          rec.Selection.EventID,
		"entity_id":         rec.Selection.EntityID,
		"stat_category":     rec.Selection.StatCategory,
		"tier":              rec.Risk.Tier,
		"reasons":           rec.Risk.Reasons,
		"probability":       rec.Value.ProjectedProbability,
		"edge":              rec.Value.Edge,
		"expected_value":    rec.Value.ExpectedValue,
		"confidence":        rec.Confidence.Final,
		"confidence_cap":    rec.Confidence.Cap,
		"sample_size":       rec.Confidence.SampleSize,
		"warnings":          len(rec.Warnings),
		"evaluated_at":      rec.EvaluatedAt.Unix(),
	}).Info("Recommendation emitted")
}

// LogCandidateSkipped logs an explicit omission with its reason.
func (al *AuditLogger) LogCandidateSkipped(candidateID string, reason string) {
	al.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"reason":       reason,
	}).Warn("Candidate skipped")
}

// LogCorrelationOverride logs an excessive-correlation force-downgrade.
func (al *AuditLogger) LogCorrelationOverride(candidateID string, eventID string, sharedCount int) {
	al.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"event_id":     eventID,
		"shared_count": sharedCount,
	}).Warn("Excessive correlation override applied")
}

// LogBatchEvaluated logs batch-level evaluation outcomes.
func (al *AuditLogger) LogBatchEvaluated(batchID string, total, emitted, skipped int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"batch_id":    batchID,
		"total":       total,
		"emitted":     emitted,
		"skipped":     skipped,
		"duration_ms": duration.Milliseconds(),
	}).Info("Batch evaluated")
}

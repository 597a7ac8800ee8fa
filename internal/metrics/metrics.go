// Package metrics provides the centralized Prometheus registry for the
// valuation engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BatchesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "batches_evaluated_total",
		Help:      "Total number of candidate batches evaluated",
	})
	CandidatesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "candidates_evaluated_total",
		Help:      "Total number of candidates that produced a recommendation",
	})
	CandidatesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "candidates_skipped_total",
		Help:      "Total number of candidates skipped, by reason class",
	}, []string{"reason"})
	RecommendationsByTier = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "recommendations_by_tier_total",
		Help:      "Total recommendations emitted, by assigned tier",
	}, []string{"tier"})
	CorrelationOverridesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "correlation_overrides_total",
		Help:      "Total excessive-correlation force-downgrades applied",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "evaluation_cache_hits_total",
		Help:      "Total evaluation cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "evaluation_cache_misses_total",
		Help:      "Total evaluation cache misses",
	})
	WebhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prop_edge",
		Name:      "webhook_deliveries_total",
		Help:      "Total webhook delivery attempts, by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	LastBatchSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_edge",
		Name:      "last_batch_size",
		Help:      "Number of candidates in the most recent batch",
	})
	ActiveStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prop_edge",
		Name:      "active_stream_clients",
		Help:      "Number of connected evaluation stream clients",
	})
)

// Histogram metrics
var (
	BatchEvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_edge",
		Name:      "batch_evaluation_duration_seconds",
		Help:      "Duration of batch evaluations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FinalConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prop_edge",
		Name:      "final_confidence",
		Help:      "Distribution of final capped confidence scores",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 75, 80, 85, 90, 95},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BatchesEvaluatedTotal)
		registry.MustRegister(CandidatesEvaluatedTotal)
		registry.MustRegister(CandidatesSkippedTotal)
		registry.MustRegister(RecommendationsByTier)
		registry.MustRegister(CorrelationOverridesTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(WebhookDeliveriesTotal)

		registry.MustRegister(LastBatchSize)
		registry.MustRegister(ActiveStreamClients)

		registry.MustRegister(BatchEvaluationDuration)
		registry.MustRegister(FinalConfidence)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBatchEvaluated records a completed batch evaluation.
func RecordBatchEvaluated(size int, durationSeconds float64) {
	BatchesEvaluatedTotal.Inc()
	LastBatchSize.Set(float64(size))
	BatchEvaluationDuration.Observe(durationSeconds)
}

// RecordRecommendation records an emitted recommendation.
func RecordRecommendation(tier string, confidence float64) {
	CandidatesEvaluatedTotal.Inc()
	RecommendationsByTier.WithLabelValues(tier).Inc()
	FinalConfidence.Observe(confidence)
}

// RecordSkip records an explicitly skipped candidate.
func RecordSkip(reason string) {
	CandidatesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordCorrelationOverride records an excessive-correlation downgrade.
func RecordCorrelationOverride() {
	CorrelationOverridesTotal.Inc()
}

// RecordCacheHit records an evaluation cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records an evaluation cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordWebhookDelivery records a webhook delivery outcome.
func RecordWebhookDelivery(outcome string) {
	WebhookDeliveriesTotal.WithLabelValues(outcome).Inc()
}

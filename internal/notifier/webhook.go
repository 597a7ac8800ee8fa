// Package notifier delivers actionable recommendations to an external
// webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/models"
)

// WebhookNotifier posts recommendations at or above a minimum tier to a
// configured endpoint. Deliveries are retried with backoff and rate
// limited so a large batch cannot flood the receiver.
type WebhookNotifier struct {
	cfg     config.NotifierConfig
	client  *retryablehttp.Client
	limiter *rate.Limiter
	minRank int
	logger  *logrus.Logger
}

// payload is the wire format delivered per recommendation.
type payload struct {
	RecommendationID string    `json:"recommendation_id"`
	CandidateID      string    `json:"candidate_id"`
	EventID          string    `json:"event_id"`
	EntityID         string    `json:"entity_id"`
	StatCategory     string    `json:"stat_category"`
	Line             float64   `json:"line"`
	Side             string    `json:"side"`
	Tier             string    `json:"tier"`
	Probability      float64   `json:"probability"`
	Edge             float64   `json:"edge"`
	ExpectedValue    float64   `json:"expected_value"`
	Price            string    `json:"price"`
	Confidence       float64   `json:"confidence"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}

// NewWebhookNotifier creates a notifier from configuration. Returns nil
// when notification is disabled so callers can pass the result through.
func NewWebhookNotifier(cfg config.NotifierConfig, log *logrus.Logger) *WebhookNotifier {
	if !cfg.Enabled {
		return nil
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	client.Logger = nil

	minTier := models.Tier(cfg.MinTier)
	if cfg.MinTier == "" {
		minTier = models.TierB
	}

	return &WebhookNotifier{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		minRank: minTier.Rank(),
		logger:  log,
	}
}

// NotifyBatch delivers every recommendation at or above the minimum
// tier. Delivery failures are logged and counted, never propagated:
// notification is best effort and the evaluation result stands.
func (n *WebhookNotifier) NotifyBatch(ctx context.Context, recs []*models.Recommendation) {
	for _, rec := range recs {
		if rec.Risk.Tier.Rank() < n.minRank {
			continue
		}
		if err := n.deliver(ctx, rec); err != nil {
			metrics.RecordWebhookDelivery("failure")
			n.logger.WithError(err).WithFields(logrus.Fields{
				"recommendation_id": rec.ID,
				"tier":              rec.Risk.Tier,
			}).Error("Webhook delivery failed")
			continue
		}
		metrics.RecordWebhookDelivery("success")
	}
}

func (n *WebhookNotifier) deliver(ctx context.Context, rec *models.Recommendation) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	body, err := json.Marshal(payload{
		RecommendationID: rec.ID.String(),
		CandidateID:      rec.CandidateID,
		EventID:          rec.Selection.EventID,
		EntityID:         rec.Selection.EntityID,
		StatCategory:     rec.Selection.StatCategory,
		Line:             rec.Selection.Line,
		Side:             string(rec.Selection.Side),
		Tier:             string(rec.Risk.Tier),
		Probability:      rec.Value.ProjectedProbability,
		Edge:             rec.Value.Edge,
		ExpectedValue:    rec.Value.ExpectedValue,
		Price:            rec.Value.Price.String(),
		Confidence:       rec.Confidence.Final,
		EvaluatedAt:      rec.EvaluatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.cfg.AuthToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

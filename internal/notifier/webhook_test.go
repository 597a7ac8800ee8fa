package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

func recommendation(tier models.Tier) *models.Recommendation {
	return &models.Recommendation{
		ID:          uuid.New(),
		CandidateID: "cand-1",
		Selection: models.Selection{
			EventID: "game-1", EntityID: "player-a", StatCategory: "points",
			Line: 20.5, Side: models.SideOver,
		},
		Value: models.ValueAssessment{
			ProjectedProbability: 0.72,
			Price:                decimal.RequireFromString("1.85"),
		},
		Risk:       models.RiskTier{Tier: tier},
		Confidence: models.ConfidenceAssessment{Final: 78},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNotifierDisabledReturnsNil(t *testing.T) {
	assert.Nil(t, NewWebhookNotifier(config.NotifierConfig{Enabled: false}, quietLogger()))
}

func TestNotifierFiltersByMinTier(t *testing.T) {
	var mu sync.Mutex
	var received []payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		mu.Lock()
		received = append(received, p)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotifierConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		MinTier:    "A",
		RateLimit:  100,
		TimeoutSec: 5,
	}, quietLogger())
	require.NotNil(t, notifier)

	notifier.NotifyBatch(context.Background(), []*models.Recommendation{
		recommendation(models.TierS),
		recommendation(models.TierA),
		recommendation(models.TierB),
		recommendation(models.TierC),
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, "S", received[0].Tier)
	assert.Equal(t, "A", received[1].Tier)
}

func TestNotifierSendsAuthHeader(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotifierConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		AuthToken:  "secret-token",
		RateLimit:  100,
		TimeoutSec: 5,
	}, quietLogger())
	require.NotNil(t, notifier)

	notifier.NotifyBatch(context.Background(), []*models.Recommendation{recommendation(models.TierS)})
	assert.Equal(t, "Bearer secret-token", auth)
}

func TestNotifierSurvivesFailingEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotifierConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		MaxRetries: 1,
		RateLimit:  100,
		TimeoutSec: 5,
	}, quietLogger())
	require.NotNil(t, notifier)

	// Must not panic or propagate; delivery is best effort.
	notifier.NotifyBatch(context.Background(), []*models.Recommendation{recommendation(models.TierS)})
}

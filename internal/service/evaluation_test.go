package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/engine"
	"github.com/yourusername/prop-edge/internal/models"
)

func newTestService(t *testing.T, cacheEnabled bool) *EvaluationService {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	eng, err := engine.NewEngine(config.DefaultEngine(), log)
	require.NoError(t, err)

	return NewEvaluationService(eng, config.CacheConfig{
		Enabled:    cacheEnabled,
		TTLSeconds: 60,
		MaxEntries: 100,
	}, log, nil, nil)
}

func testCandidate(id string) models.CandidateInput {
	samples := make([]models.Sample, 20)
	for i := range samples {
		samples[i] = models.Sample{Value: 22}
	}
	return models.CandidateInput{
		ID: id,
		Selection: models.Selection{
			EventID:      "game-1",
			EntityID:     "player-" + id,
			StatCategory: "points",
			Line:         20.5,
			Side:         models.SideOver,
		},
		Observations: models.ObservationSeries{
			Samples:   samples,
			Mode:      models.OutcomeModeThreshold,
			Threshold: 20.5,
		},
		Quote: models.MarketQuote{Price: decimal.RequireFromString("1.85")},
	}
}

func TestServiceEvaluates(t *testing.T) {
	svc := newTestService(t, false)

	result, err := svc.Evaluate(context.Background(), []models.CandidateInput{testCandidate("1")})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Empty(t, result.Skipped)
}

func TestServiceMemoizesIdenticalBatches(t *testing.T) {
	svc := newTestService(t, true)
	batch := []models.CandidateInput{testCandidate("1")}

	first, err := svc.Evaluate(context.Background(), batch)
	require.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), batch)
	require.NoError(t, err)

	// A cache hit returns the stored result, batch identity included.
	assert.Equal(t, first.BatchID, second.BatchID)
}

func TestServicePurgeCacheForcesReevaluation(t *testing.T) {
	svc := newTestService(t, true)
	batch := []models.CandidateInput{testCandidate("1")}

	first, err := svc.Evaluate(context.Background(), batch)
	require.NoError(t, err)

	svc.PurgeCache()

	second, err := svc.Evaluate(context.Background(), batch)
	require.NoError(t, err)
	assert.NotEqual(t, first.BatchID, second.BatchID)

	// The records themselves stay deterministic across re-evaluations.
	assert.Equal(t, first.Recommendations[0].ID, second.Recommendations[0].ID)
}

func TestServiceSkipsInvalidCandidates(t *testing.T) {
	svc := newTestService(t, false)

	missingID := testCandidate("1")
	missingID.ID = ""

	result, err := svc.Evaluate(context.Background(), []models.CandidateInput{
		missingID,
		testCandidate("2"),
	})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, models.SkipValidation, result.Skipped[0].Code)
}

func TestServiceDistinctBatchesNotConflated(t *testing.T) {
	svc := newTestService(t, true)

	first, err := svc.Evaluate(context.Background(), []models.CandidateInput{testCandidate("1")})
	require.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), []models.CandidateInput{testCandidate("2")})
	require.NoError(t, err)

	assert.NotEqual(t, first.BatchID, second.BatchID)
	assert.NotEqual(t, first.Recommendations[0].ID, second.Recommendations[0].ID)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestAggregateEmptySeries(t *testing.T) {
	agg := NewObservationAggregator(plainAggregationConfig())

	_, err := agg.Aggregate(&models.ObservationSeries{Mode: models.OutcomeModeBinary})
	require.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestAggregateBinaryRate(t *testing.T) {
	agg := NewObservationAggregator(plainAggregationConfig())

	series := &models.ObservationSeries{
		Mode: models.OutcomeModeBinary,
		Samples: []models.Sample{
			{Value: 1}, {Value: 0}, {Value: 1}, {Value: 1},
		},
	}

	result, err := agg.Aggregate(series)
	require.NoError(t, err)
	assert.Equal(t, 4, result.SampleSize)
	assert.InDelta(t, 0.75, result.Rate, 1e-9)
	// Binary dispersion comes from binomial variance.
	assert.InDelta(t, 0.4330, result.StdDev, 1e-4)
}

func TestAggregateThresholdRate(t *testing.T) {
	agg := NewObservationAggregator(plainAggregationConfig())

	series := &models.ObservationSeries{
		Mode:      models.OutcomeModeThreshold,
		Threshold: 20.0,
		Samples: []models.Sample{
			{Value: 25}, {Value: 18}, {Value: 22}, {Value: 20},
		},
	}

	result, err := agg.Aggregate(series)
	require.NoError(t, err)
	// 25, 22 and the exact-threshold 20 count as successes.
	assert.InDelta(t, 0.75, result.Rate, 1e-9)
	assert.InDelta(t, 21.25, result.Mean, 1e-9)
}

func TestAggregateRecencyWeighting(t *testing.T) {
	cfg := plainAggregationConfig()
	cfg.RecencyWeighting = true
	cfg.RecencyDecay = 0.5
	agg := NewObservationAggregator(cfg)

	// Oldest sample failed, most recent succeeded. With decay 0.5 the
	// recent sample carries twice the weight.
	series := &models.ObservationSeries{
		Mode:    models.OutcomeModeBinary,
		Samples: []models.Sample{{Value: 0}, {Value: 1}},
	}

	result, err := agg.Aggregate(series)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, result.Rate, 1e-9)
}

func TestAggregateExplicitWeightsOverrideRecency(t *testing.T) {
	cfg := plainAggregationConfig()
	cfg.RecencyWeighting = true
	cfg.RecencyDecay = 0.5
	agg := NewObservationAggregator(cfg)

	series := &models.ObservationSeries{
		Mode: models.OutcomeModeBinary,
		Samples: []models.Sample{
			{Value: 0, Weight: floatPtr(3)},
			{Value: 1, Weight: floatPtr(1)},
		},
	}

	result, err := agg.Aggregate(series)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, result.Rate, 1e-9)
}

func TestAggregateNegativeWeightRejected(t *testing.T) {
	agg := NewObservationAggregator(plainAggregationConfig())

	series := &models.ObservationSeries{
		Mode:    models.OutcomeModeBinary,
		Samples: []models.Sample{{Value: 1, Weight: floatPtr(-1)}},
	}

	_, err := agg.Aggregate(series)
	require.ErrorIs(t, err, models.ErrDegenerateInput)
}

func TestAggregateExposureNormalization(t *testing.T) {
	cfg := plainAggregationConfig()
	cfg.ExposureNormalization = true
	agg := NewObservationAggregator(cfg)

	// 12 points in half a game projects to 24 for a full game, clearing
	// the threshold the raw value would miss.
	series := &models.ObservationSeries{
		Mode:      models.OutcomeModeThreshold,
		Threshold: 20.0,
		Samples:   []models.Sample{{Value: 12, ExposureFraction: floatPtr(0.5)}},
	}

	result, err := agg.Aggregate(series)
	require.NoError(t, err)
	assert.InDelta(t, 24.0, result.Mean, 1e-9)
	assert.InDelta(t, 1.0, result.Rate, 1e-9)
}

func TestAggregateZeroExposureRejected(t *testing.T) {
	cfg := plainAggregationConfig()
	cfg.ExposureNormalization = true
	agg := NewObservationAggregator(cfg)

	series := &models.ObservationSeries{
		Mode:    models.OutcomeModeBinary,
		Samples: []models.Sample{{Value: 1, ExposureFraction: floatPtr(0)}},
	}

	_, err := agg.Aggregate(series)
	require.ErrorIs(t, err, models.ErrDegenerateInput)
}

func TestAggregateOpponentStrengthRescale(t *testing.T) {
	cfg := plainAggregationConfig()
	cfg.OpponentAdjustmentFactor = 0.10
	agg := NewObservationAggregator(cfg)

	series := &models.ObservationSeries{
		Mode:      models.OutcomeModeThreshold,
		Threshold: 15.0,
		Samples:   []models.Sample{{Value: 22, OpponentStrength: floatPtr(1.0)}},
	}

	result, err := agg.Aggregate(series)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, result.Mean, 1e-9)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/models"
)

func TestDefaultEngineIsValid(t *testing.T) {
	engine := DefaultEngine()
	require.NoError(t, ValidateEngine(&engine))
}

func TestValidateEngineThresholdTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{
			"shrinkage weights not strictly decreasing",
			func(e *EngineConfig) { e.Shrinkage.Brackets[1].PriorWeight = 12 },
		},
		{
			"shrinkage brackets out of order",
			func(e *EngineConfig) { e.Shrinkage.Brackets[1].UpTo = 5 },
		},
		{
			"shrinkage final bracket bounded",
			func(e *EngineConfig) { e.Shrinkage.Brackets[len(e.Shrinkage.Brackets)-1].UpTo = 200 },
		},
		{
			"caps decreasing",
			func(e *EngineConfig) { e.Confidence.CapBrackets[0].Cap = 99 },
		},
		{
			"cap brackets out of order",
			func(e *EngineConfig) { e.Confidence.CapBrackets[1].UpTo = 10 },
		},
		{
			"volatility bands not ascending in cv",
			func(e *EngineConfig) { e.Volatility.Bands[1].CV = 0.10 },
		},
		{
			"volatility penalties decreasing",
			func(e *EngineConfig) { e.Volatility.Bands[0].Penalty = 20 },
		},
		{
			"volatility band above max penalty",
			func(e *EngineConfig) { e.Volatility.Bands[2].Penalty = 50 },
		},
		{
			"correlation bands inverted",
			func(e *EngineConfig) { e.Correlation.Bands.ModerateMax = 1.0 },
		},
		{
			"correlation penalties increase with strength",
			func(e *EngineConfig) { e.Correlation.Penalties.Strong = 20 },
		},
		{
			"combined context clamp inverted",
			func(e *EngineConfig) { e.Context.CombinedClampMin = 1.2 },
		},
		{
			"tier ev gates inverted",
			func(e *EngineConfig) { e.Tiers.S.MinEV = 0.01 },
		},
		{
			"tier edge gates inverted",
			func(e *EngineConfig) { e.Tiers.B.MinEdge = 0.50 },
		},
		{
			"tier probability gates inverted",
			func(e *EngineConfig) { e.Tiers.A.MinProbability = 0.99 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := DefaultEngine()
			tt.mutate(&engine)
			err := ValidateEngine(&engine)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrConfiguration)
		})
	}
}

func TestPriorWeightForBrackets(t *testing.T) {
	shrinkage := DefaultEngine().Shrinkage

	tests := []struct {
		n      int
		weight float64
	}{
		{1, 12},
		{9, 12},
		{10, 8},
		{19, 8},
		{20, 5},
		{40, 2},
		{80, 1},
		{5000, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.weight, shrinkage.PriorWeightFor(tt.n), "n=%d", tt.n)
	}
}

func TestValidateCrossField(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Validate(cfg))

	cfg = validConfig()
	cfg.App.Environment = "production"
	cfg.Database.Enabled = true
	cfg.Database.SSLMode = "disable"
	require.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Notifier.Enabled = true
	cfg.Notifier.WebhookURL = ""
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestValidateRejectsUnknownEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "qa"
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "prop-edge",
			Environment: "development",
			LogLevel:    "info",
		},
		Engine: DefaultEngine(),
		Server: ServerConfig{
			ListenAddress:  ":8087",
			RateLimit:      5,
			RateBurst:      10,
			MaxBatchSize:   500,
			ReadTimeoutSec: 30,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxEntries: 10000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9104,
			Path:    "/metrics",
		},
	}
}

package engine

import (
	"github.com/yourusername/prop-edge/internal/config"
)

// plainAggregationConfig disables every adjustment so tests can enable
// one at a time.
func plainAggregationConfig() config.AggregationConfig {
	return config.AggregationConfig{
		RecencyWeighting:         false,
		RecencyDecay:             0.97,
		OpponentAdjustmentFactor: 0,
		AwayValueFactor:          1.0,
		ExposureNormalization:    false,
	}
}

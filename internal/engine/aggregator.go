// Package engine implements the probabilistic valuation and
// risk-tiering pipeline: observation aggregation, Bayesian shrinkage,
// volatility scoring, context adjustment, confidence capping,
// correlation penalties, value calculation and tier classification.
package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

// Aggregate is the reduction of an observation series: a success rate
// against the wagered line, an adjusted mean in the statistic's native
// unit, a dispersion measure and the effective sample size.
type Aggregate struct {
	Rate       float64
	Mean       float64
	StdDev     float64
	SampleSize int
	Warnings   []string
}

// ObservationAggregator reduces a raw observation series to a point
// estimate, applying recency weighting and context-based adjustment
// before rate computation.
type ObservationAggregator struct {
	cfg config.AggregationConfig
}

// NewObservationAggregator creates an aggregator from configuration.
func NewObservationAggregator(cfg config.AggregationConfig) *ObservationAggregator {
	return &ObservationAggregator{cfg: cfg}
}

// Aggregate reduces the series. An empty series is the only refusal;
// any n >= 1 produces an estimate and leaves reliability to the
// downstream shrinkage and capping stages.
func (a *ObservationAggregator) Aggregate(series *models.ObservationSeries) (*Aggregate, error) {
	n := series.Size()
	if n == 0 {
		return nil, models.ErrInsufficientData
	}

	adjusted, warnings, err := a.adjustValues(series.Samples)
	if err != nil {
		return nil, err
	}

	weights, err := a.resolveWeights(series)
	if err != nil {
		return nil, err
	}

	mean := 0.0
	rate := 0.0
	for i, value := range adjusted {
		mean += weights[i] * value
		if a.isSuccess(series, value) {
			rate += weights[i]
		}
	}

	stddev := a.dispersion(series.Mode, adjusted, weights, mean, rate)

	return &Aggregate{
		Rate:       rate,
		Mean:       mean,
		StdDev:     stddev,
		SampleSize: n,
		Warnings:   warnings,
	}, nil
}

// adjustValues rescales each raw value for exposure, opponent strength
// and the home/away split before any rate computation.
func (a *ObservationAggregator) adjustValues(samples []models.Sample) ([]float64, []string, error) {
	adjusted := make([]float64, len(samples))
	var warnings []string

	for i, sample := range samples {
		value := sample.Value

		if a.cfg.ExposureNormalization && sample.ExposureFraction != nil {
			exposure := *sample.ExposureFraction
			if exposure <= 0 {
				return nil, nil, fmt.Errorf("%w: sample %d has exposure fraction %.3f", models.ErrDegenerateInput, i, exposure)
			}
			value = value / exposure
		}

		if sample.OpponentStrength != nil && a.cfg.OpponentAdjustmentFactor > 0 {
			value = value / (1.0 + *sample.OpponentStrength*a.cfg.OpponentAdjustmentFactor)
		}

		if sample.Location == models.LocationAway && a.cfg.AwayValueFactor != 1.0 {
			value = value * a.cfg.AwayValueFactor
		}

		adjusted[i] = value
	}

	return adjusted, warnings, nil
}

// resolveWeights picks explicit weights when supplied, recency decay
// when enabled, uniform otherwise, and normalizes to sum 1.
func (a *ObservationAggregator) resolveWeights(series *models.ObservationSeries) ([]float64, error) {
	n := series.Size()
	weights := make([]float64, n)

	switch {
	case series.HasExplicitWeights():
		for i, sample := range series.Samples {
			if sample.Weight != nil {
				if *sample.Weight < 0 {
					return nil, fmt.Errorf("%w: sample %d has negative weight", models.ErrDegenerateInput, i)
				}
				weights[i] = *sample.Weight
			}
		}
	case a.cfg.RecencyWeighting:
		// Most recent sample is last; reverse chronological index 0
		// gets the full weight.
		for i := range weights {
			reverseIndex := n - 1 - i
			weights[i] = math.Pow(a.cfg.RecencyDecay, float64(reverseIndex))
		}
	default:
		for i := range weights {
			weights[i] = 1.0
		}
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: observation weights sum to zero", models.ErrDegenerateInput)
	}
	for i := range weights {
		weights[i] /= total
	}

	return weights, nil
}

func (a *ObservationAggregator) isSuccess(series *models.ObservationSeries, adjustedValue float64) bool {
	switch series.Mode {
	case models.OutcomeModeBinary:
		return adjustedValue > 0
	default:
		return adjustedValue >= series.Threshold
	}
}

// dispersion returns the weighted standard deviation for continuous
// series; binary series imply it from binomial variance.
func (a *ObservationAggregator) dispersion(mode models.OutcomeMode, values, weights []float64, mean, rate float64) float64 {
	if mode == models.OutcomeModeBinary {
		return math.Sqrt(rate * (1.0 - rate))
	}

	variance := 0.0
	for i, value := range values {
		deviation := value - mean
		variance += weights[i] * deviation * deviation
	}
	return math.Sqrt(variance)
}

package models

// OutcomeMode determines how an observation series is reduced to a rate.
type OutcomeMode string

const (
	// OutcomeModeBinary treats each sample value as a success (>0) or failure.
	OutcomeModeBinary OutcomeMode = "binary"
	// OutcomeModeThreshold counts samples meeting or exceeding a threshold.
	OutcomeModeThreshold OutcomeMode = "threshold"
)

// Location indicates where a sample was recorded relative to the entity.
type Location string

const (
	LocationHome    Location = "home"
	LocationAway    Location = "away"
	LocationNeutral Location = "neutral"
)

// Sample is a single historical observation. Weight, opponent strength
// and exposure are optional; zero values mean "not supplied".
type Sample struct {
	Value            float64  `json:"value"`
	Weight           *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Location         Location `json:"location,omitempty"`
	OpponentID       string   `json:"opponent_id,omitempty"`
	OpponentStrength *float64 `json:"opponent_strength,omitempty"`
	// ExposureFraction is the fraction of a full game the sample covers
	// (e.g. minutes played / 48). Nil means full exposure.
	ExposureFraction *float64 `json:"exposure_fraction,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// ObservationSeries is an ordered series of samples, most recent last.
type ObservationSeries struct {
	Samples []Sample    `json:"samples"`
	Mode    OutcomeMode `json:"mode" validate:"required,oneof=binary threshold"`
	// Threshold is the success cutoff for OutcomeModeThreshold; it is
	// also the wagered line used for correlation margin computation.
	Threshold float64 `json:"threshold,omitempty"`
}

// Size returns the number of samples in the series.
func (s *ObservationSeries) Size() int {
	return len(s.Samples)
}

// Values returns the raw sample values in order.
func (s *ObservationSeries) Values() []float64 {
	values := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		values[i] = sample.Value
	}
	return values
}

// HasExplicitWeights reports whether any sample carries its own weight.
func (s *ObservationSeries) HasExplicitWeights() bool {
	for _, sample := range s.Samples {
		if sample.Weight != nil {
			return true
		}
	}
	return false
}

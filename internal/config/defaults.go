// Package config provides configuration management for the Prop Edge engine.
package config

// DefaultEngine returns the engine threshold tables used when the
// configuration file does not override them. Every value here can be
// replaced from config; nothing else in the codebase hard-codes a
// threshold.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		MaxConcurrency: 8,
		Aggregation: AggregationConfig{
			RecencyWeighting:         true,
			RecencyDecay:             0.97,
			OpponentAdjustmentFactor: 0.10,
			AwayValueFactor:          1.0,
			ExposureNormalization:    true,
		},
		Shrinkage: ShrinkageConfig{
			DefaultPrior: 0.50,
			Brackets: []ShrinkageBracket{
				{UpTo: 10, PriorWeight: 12},
				{UpTo: 20, PriorWeight: 8},
				{UpTo: 40, PriorWeight: 5},
				{UpTo: 80, PriorWeight: 2},
				{UpTo: 0, PriorWeight: 1},
			},
		},
		Volatility: VolatilityConfig{
			Bands: []VolatilityBand{
				{CV: 0.15, Penalty: 0},
				{CV: 0.30, Penalty: 15},
				{CV: 0.45, Penalty: 30},
			},
			MaxPenalty: 30,
		},
		Context: ContextConfig{
			PaceClampMin:        0.90,
			PaceClampMax:        1.10,
			DefenseClampMin:     0.85,
			DefenseClampMax:     1.15,
			UsageWeight:         0.25,
			UsageClampMin:       0.95,
			UsageClampMax:       1.05,
			CombinedClampMin:    0.90,
			CombinedClampMax:    1.10,
			RoleChangePenalty:   8,
			UsageShiftThreshold: 0.20,
			UsagePenalty:        5,
		},
		Confidence: ConfidenceConfig{
			Intercept:        50,
			ProbabilitySlope: 100,
			SamplePoint:      0.25,
			SampleBonusCap:   40,
			CapBrackets: []CapBracket{
				{UpTo: 15, Cap: 75},
				{UpTo: 30, Cap: 85},
				{UpTo: 50, Cap: 90},
				{UpTo: 80, Cap: 93},
				{UpTo: 0, Cap: 95},
			},
		},
		Correlation: CorrelationConfig{
			Bands: CorrelationBands{
				WeakMax:     2.0,
				ModerateMax: 4.0,
			},
			Penalties: CorrelationPenalties{
				Weak:     12,
				Moderate: 7,
				Strong:   3,
			},
			EventKeyWeight:      0.50,
			EntityKeyWeight:     0.75,
			EventStatKeyWeight:  1.0,
			EntityStatKeyWeight: 1.0,
			MaxTotalPenalty:     25,
			MaxSharedPerEvent:   2,
		},
		Tiers: TierConfig{
			S: TierGate{MinEV: 0.20, MinEdge: 0.10, MinProbability: 0.75},
			A: TierGate{MinEV: 0.12, MinEdge: 0.06, MinProbability: 0.65},
			B: TierGate{MinEV: 0.05, MinEdge: 0.03},
			Floors: DisqualificationFloors{
				MinEdge:       0.01,
				MinConfidence: 40,
				MinMispricing: 0.02,
				MinSampleSize: 5,
			},
		},
	}
}

// Package config provides configuration management for the Prop Edge engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig enumerates every named threshold used by the valuation
// pipeline. No threshold lives in code; a missing or non-monotonic
// table is a fatal configuration error at startup.
type EngineConfig struct {
	MaxConcurrency int               `mapstructure:"max_concurrency" validate:"required,gt=0"`
	Aggregation    AggregationConfig `mapstructure:"aggregation" validate:"required"`
	Shrinkage      ShrinkageConfig   `mapstructure:"shrinkage" validate:"required"`
	Volatility     VolatilityConfig  `mapstructure:"volatility" validate:"required"`
	Context        ContextConfig     `mapstructure:"context" validate:"required"`
	Confidence     ConfidenceConfig  `mapstructure:"confidence" validate:"required"`
	Correlation    CorrelationConfig `mapstructure:"correlation" validate:"required"`
	Tiers          TierConfig        `mapstructure:"tiers" validate:"required"`
}

// AggregationConfig controls observation series reduction.
type AggregationConfig struct {
	RecencyWeighting bool `mapstructure:"recency_weighting"`
	// RecencyDecay is the per-step decay applied in reverse
	// chronological order: weight_i = decay^i, most recent i=0.
	RecencyDecay float64 `mapstructure:"recency_decay" validate:"required,gt=0,lte=1"`
	// OpponentAdjustmentFactor scales the opponent-strength rescale:
	// adjusted = raw / (1 + strength*factor).
	OpponentAdjustmentFactor float64 `mapstructure:"opponent_adjustment_factor" validate:"gte=0,lte=1"`
	// AwayValueFactor rescales raw values recorded away from home
	// before rate computation (1.0 disables the split).
	AwayValueFactor float64 `mapstructure:"away_value_factor" validate:"required,gt=0"`
	// ExposureNormalization rescales each raw value to a full game:
	// adjusted = raw * (1.0 / exposure_fraction).
	ExposureNormalization bool `mapstructure:"exposure_normalization"`
}

// ShrinkageBracket maps a sample-size bracket to a prior weight.
// UpTo is the exclusive upper bound; the final bracket uses UpTo = 0
// meaning unbounded.
type ShrinkageBracket struct {
	UpTo        int     `mapstructure:"up_to" validate:"gte=0"`
	PriorWeight float64 `mapstructure:"prior_weight" validate:"required,gt=0"`
}

// ShrinkageConfig controls the pull toward the prior for small samples.
type ShrinkageConfig struct {
	DefaultPrior float64            `mapstructure:"default_prior" validate:"required,gt=0,lt=1"`
	Brackets     []ShrinkageBracket `mapstructure:"brackets" validate:"required,min=2,dive"`
}

// VolatilityBand is one interpolation point of the CV-to-penalty curve.
type VolatilityBand struct {
	CV      float64 `mapstructure:"cv" validate:"gte=0"`
	Penalty float64 `mapstructure:"penalty" validate:"gte=0"`
}

// VolatilityConfig controls the coefficient-of-variation penalty.
// The mapping is piecewise-linear between bands: below the first band
// the penalty is the first band's value, above the last it is capped
// at MaxPenalty.
type VolatilityConfig struct {
	Bands      []VolatilityBand `mapstructure:"bands" validate:"required,min=2,dive"`
	MaxPenalty float64          `mapstructure:"max_penalty" validate:"required,gt=0,lte=100"`
}

// ContextConfig bounds the contextual probability adjustment.
type ContextConfig struct {
	PaceClampMin    float64 `mapstructure:"pace_clamp_min" validate:"required,gt=0,lte=1"`
	PaceClampMax    float64 `mapstructure:"pace_clamp_max" validate:"required,gte=1"`
	DefenseClampMin float64 `mapstructure:"defense_clamp_min" validate:"required,gt=0,lte=1"`
	DefenseClampMax float64 `mapstructure:"defense_clamp_max" validate:"required,gte=1"`
	// UsageWeight converts a usage shift into a probability factor:
	// factor = 1 + shift*weight, clamped like the others.
	UsageWeight   float64 `mapstructure:"usage_weight" validate:"gte=0,lte=1"`
	UsageClampMin float64 `mapstructure:"usage_clamp_min" validate:"required,gt=0,lte=1"`
	UsageClampMax float64 `mapstructure:"usage_clamp_max" validate:"required,gte=1"`
	// CombinedClampMin/Max bound the product of all factors regardless
	// of how many are active.
	CombinedClampMin float64 `mapstructure:"combined_clamp_min" validate:"required,gt=0,lte=1"`
	CombinedClampMax float64 `mapstructure:"combined_clamp_max" validate:"required,gte=1"`
	// RoleChangePenalty is the fixed confidence deduction for a role
	// change; UsageShiftThreshold is the relative exposure shift that
	// triggers the usage-instability penalty.
	RoleChangePenalty   float64 `mapstructure:"role_change_penalty" validate:"gte=0,lte=100"`
	UsageShiftThreshold float64 `mapstructure:"usage_shift_threshold" validate:"required,gt=0,lte=1"`
	UsagePenalty        float64 `mapstructure:"usage_penalty" validate:"gte=0,lte=100"`
}

// CapBracket maps a sample-size bracket to a confidence ceiling.
// UpTo is the exclusive upper bound; the final bracket uses UpTo = 0
// meaning unbounded.
type CapBracket struct {
	UpTo int     `mapstructure:"up_to" validate:"gte=0"`
	Cap  float64 `mapstructure:"cap" validate:"required,gt=0,lte=100"`
}

// ConfidenceConfig controls the base confidence model and the
// sample-size ceiling.
type ConfidenceConfig struct {
	// Base confidence = intercept + (probability-0.5)*probability_slope
	//                 + min(n, sample_bonus_cap)*sample_point, clamped 0-100.
	Intercept        float64      `mapstructure:"intercept" validate:"gte=0,lte=100"`
	ProbabilitySlope float64      `mapstructure:"probability_slope" validate:"gte=0"`
	SamplePoint      float64      `mapstructure:"sample_point" validate:"gte=0"`
	SampleBonusCap   int          `mapstructure:"sample_bonus_cap" validate:"gte=0"`
	CapBrackets      []CapBracket `mapstructure:"cap_brackets" validate:"required,min=2,dive"`
}

// CorrelationBands are the margin cutoffs for correlation penalties:
// a margin below WeakMax is weak, below ModerateMax moderate,
// otherwise strong.
type CorrelationBands struct {
	WeakMax     float64 `mapstructure:"weak_max" validate:"required,gt=0"`
	ModerateMax float64 `mapstructure:"moderate_max" validate:"required,gt=0"`
}

// CorrelationPenalties are the per-band confidence deductions.
type CorrelationPenalties struct {
	Weak     float64 `mapstructure:"weak" validate:"required,gt=0,lte=100"`
	Moderate float64 `mapstructure:"moderate" validate:"required,gt=0,lte=100"`
	Strong   float64 `mapstructure:"strong" validate:"gte=0,lte=100"`
}

// CorrelationConfig controls shared-outcome risk detection.
type CorrelationConfig struct {
	Bands     CorrelationBands     `mapstructure:"bands" validate:"required"`
	Penalties CorrelationPenalties `mapstructure:"penalties" validate:"required"`
	// KeyWeights scale the band penalty per relationship kind; when a
	// pair matches several related keys the strictest applies.
	EventKeyWeight      float64 `mapstructure:"event_key_weight" validate:"required,gt=0,lte=1"`
	EntityKeyWeight     float64 `mapstructure:"entity_key_weight" validate:"required,gt=0,lte=1"`
	EventStatKeyWeight  float64 `mapstructure:"event_stat_key_weight" validate:"required,gt=0,lte=1"`
	EntityStatKeyWeight float64 `mapstructure:"entity_stat_key_weight" validate:"required,gt=0,lte=1"`
	// MaxTotalPenalty caps stacked penalties across counterparties.
	MaxTotalPenalty float64 `mapstructure:"max_total_penalty" validate:"required,gt=0,lte=100"`
	// MaxSharedPerEvent is the allowed number of candidates on one
	// event key before the excessive-correlation override fires.
	MaxSharedPerEvent int `mapstructure:"max_shared_per_event" validate:"required,gt=0"`
}

// TierGate holds the thresholds a candidate must clear for a tier.
type TierGate struct {
	MinEV          float64 `mapstructure:"min_ev"`
	MinEdge        float64 `mapstructure:"min_edge"`
	MinProbability float64 `mapstructure:"min_probability" validate:"gte=0,lte=1"`
}

// DisqualificationFloors force-classify a candidate C when any floor
// is broken, before tier B is attempted.
type DisqualificationFloors struct {
	MinEdge       float64 `mapstructure:"min_edge"`
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
	MinMispricing float64 `mapstructure:"min_mispricing"`
	MinSampleSize int     `mapstructure:"min_sample_size" validate:"gte=0"`
}

// TierConfig holds the ordered classification gates.
type TierConfig struct {
	S      TierGate               `mapstructure:"s" validate:"required"`
	A      TierGate               `mapstructure:"a" validate:"required"`
	B      TierGate               `mapstructure:"b" validate:"required"`
	Floors DisqualificationFloors `mapstructure:"floors" validate:"required"`
}

// DatabaseConfig represents the decision-record store connection.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// ServerConfig represents the evaluation stream server.
type ServerConfig struct {
	ListenAddress string `mapstructure:"listen_address" validate:"required"`
	// RateLimit is the allowed batches per second per connection.
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	RateBurst      int     `mapstructure:"rate_burst" validate:"required,gt=0"`
	MaxBatchSize   int     `mapstructure:"max_batch_size" validate:"required,gt=0"`
	ReadTimeoutSec int     `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
}

// NotifierConfig represents the webhook for actionable recommendations.
type NotifierConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	WebhookURL string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	AuthToken  string  `mapstructure:"auth_token"`
	MinTier    string  `mapstructure:"min_tier" validate:"omitempty,oneof=S A B"`
	MaxRetries int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RateLimit  float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	TimeoutSec int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
}

// SchedulerConfig represents periodic re-evaluation jobs.
type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// ReevaluateSchedule is a cron expression for re-running the watch
	// file; CachePurgeSchedule expires stale memoized results.
	ReevaluateSchedule string `mapstructure:"reevaluate_schedule"`
	CachePurgeSchedule string `mapstructure:"cache_purge_schedule"`
	WatchFile          string `mapstructure:"watch_file"`
	OutputFile         string `mapstructure:"output_file"`
}

// CacheConfig represents evaluation result memoization.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxEntries int  `mapstructure:"max_entries" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PriorWeightFor returns the shrinkage prior weight for a sample size.
// Brackets are validated ascending with strictly decreasing weights.
func (s *ShrinkageConfig) PriorWeightFor(n int) float64 {
	for _, bracket := range s.Brackets {
		if bracket.UpTo == 0 {
			return bracket.PriorWeight
		}
		if n < bracket.UpTo {
			return bracket.PriorWeight
		}
	}
	return s.Brackets[len(s.Brackets)-1].PriorWeight
}

// CapFor returns the confidence ceiling for a sample size.
func (c *ConfidenceConfig) CapFor(n int) float64 {
	for _, bracket := range c.CapBrackets {
		if bracket.UpTo == 0 {
			return bracket.Cap
		}
		if n < bracket.UpTo {
			return bracket.Cap
		}
	}
	return c.CapBrackets[len(c.CapBrackets)-1].Cap
}

// Package config provides configuration management for the Prop Edge engine.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/prop-edge/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration. Any failure wraps
// models.ErrConfiguration and is fatal at startup.
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}

	if err := validateThresholdTables(&cfg.Engine); err != nil {
		return err
	}

	return validateCrossField(cfg)
}

// ValidateEngine validates the engine threshold tables on their own,
// for callers constructing an EngineConfig without the surrounding
// application configuration.
func ValidateEngine(engine *EngineConfig) error {
	cv := NewValidator()
	if err := cv.validator.Struct(engine); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}
	return validateThresholdTables(engine)
}

// ValidateCandidate validates a single candidate input against its
// struct tags before evaluation.
func (cv *CustomValidator) ValidateCandidate(candidate *models.CandidateInput) error {
	return cv.validator.Struct(candidate)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateThresholdTables enforces the monotonicity invariants the
// pipeline depends on. An inconsistent table would silently produce
// wrong tiers for every candidate, so these are fatal.
func validateThresholdTables(engine *EngineConfig) error {
	if err := validateShrinkageBrackets(engine.Shrinkage.Brackets); err != nil {
		return err
	}
	if err := validateCapBrackets(engine.Confidence.CapBrackets); err != nil {
		return err
	}
	if err := validateVolatilityBands(engine.Volatility); err != nil {
		return err
	}
	if err := validateCorrelation(&engine.Correlation); err != nil {
		return err
	}

	if engine.Context.CombinedClampMin > engine.Context.CombinedClampMax {
		return fmt.Errorf("%w: combined context clamp bounds are inverted", models.ErrConfiguration)
	}

	tiers := engine.Tiers
	if tiers.S.MinEV < tiers.A.MinEV || tiers.A.MinEV < tiers.B.MinEV {
		return fmt.Errorf("%w: tier EV gates must be non-increasing from S to B", models.ErrConfiguration)
	}
	if tiers.S.MinEdge < tiers.A.MinEdge || tiers.A.MinEdge < tiers.B.MinEdge {
		return fmt.Errorf("%w: tier edge gates must be non-increasing from S to B", models.ErrConfiguration)
	}
	if tiers.S.MinProbability < tiers.A.MinProbability {
		return fmt.Errorf("%w: tier S probability gate cannot be below tier A", models.ErrConfiguration)
	}

	return nil
}

// validateShrinkageBrackets requires ascending sample-size bounds with
// strictly decreasing prior weights, ending in an unbounded bracket.
func validateShrinkageBrackets(brackets []ShrinkageBracket) error {
	last := len(brackets) - 1
	for i, bracket := range brackets {
		if i == last {
			if bracket.UpTo != 0 {
				return fmt.Errorf("%w: final shrinkage bracket must be unbounded (up_to=0)", models.ErrConfiguration)
			}
			continue
		}
		if bracket.UpTo <= 0 {
			return fmt.Errorf("%w: shrinkage bracket %d must have positive up_to", models.ErrConfiguration, i)
		}
		if i > 0 && bracket.UpTo <= brackets[i-1].UpTo {
			return fmt.Errorf("%w: shrinkage brackets must be ascending in sample size", models.ErrConfiguration)
		}
		if bracket.PriorWeight <= brackets[i+1].PriorWeight {
			return fmt.Errorf("%w: shrinkage prior weights must strictly decrease as sample size grows", models.ErrConfiguration)
		}
	}
	return nil
}

// validateCapBrackets requires ascending bounds with non-decreasing caps.
func validateCapBrackets(brackets []CapBracket) error {
	last := len(brackets) - 1
	for i, bracket := range brackets {
		if i == last {
			if bracket.UpTo != 0 {
				return fmt.Errorf("%w: final cap bracket must be unbounded (up_to=0)", models.ErrConfiguration)
			}
			continue
		}
		if bracket.UpTo <= 0 {
			return fmt.Errorf("%w: cap bracket %d must have positive up_to", models.ErrConfiguration, i)
		}
		if i > 0 && bracket.UpTo <= brackets[i-1].UpTo {
			return fmt.Errorf("%w: cap brackets must be ascending in sample size", models.ErrConfiguration)
		}
		if bracket.Cap > brackets[i+1].Cap {
			return fmt.Errorf("%w: confidence caps must be non-decreasing in sample size", models.ErrConfiguration)
		}
	}
	return nil
}

// validateVolatilityBands requires ascending CV points with
// non-decreasing penalties bounded by MaxPenalty.
func validateVolatilityBands(volatility VolatilityConfig) error {
	for i, band := range volatility.Bands {
		if i > 0 {
			previous := volatility.Bands[i-1]
			if band.CV <= previous.CV {
				return fmt.Errorf("%w: volatility bands must be ascending in CV", models.ErrConfiguration)
			}
			if band.Penalty < previous.Penalty {
				return fmt.Errorf("%w: volatility penalties must be non-decreasing in CV", models.ErrConfiguration)
			}
		}
		if band.Penalty > volatility.MaxPenalty {
			return fmt.Errorf("%w: volatility band penalty exceeds max_penalty", models.ErrConfiguration)
		}
	}
	return nil
}

// validateCorrelation requires weak >= moderate >= strong penalties and
// ordered margin bands.
func validateCorrelation(correlation *CorrelationConfig) error {
	if correlation.Bands.ModerateMax <= correlation.Bands.WeakMax {
		return fmt.Errorf("%w: correlation moderate_max must exceed weak_max", models.ErrConfiguration)
	}
	penalties := correlation.Penalties
	if penalties.Weak < penalties.Moderate || penalties.Moderate < penalties.Strong {
		return fmt.Errorf("%w: correlation penalties must decrease with margin strength", models.ErrConfiguration)
	}
	return nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Database.Enabled && cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}
	if cfg.Notifier.Enabled && cfg.Notifier.WebhookURL == "" {
		return fmt.Errorf("%w: notifier enabled without webhook_url", models.ErrConfiguration)
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("%w:\n%s", models.ErrConfiguration, errMsg)
}

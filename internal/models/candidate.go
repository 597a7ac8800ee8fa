package models

import "fmt"

// Side is the direction of the wager relative to the line.
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Selection describes what is being wagered on: an entity's statistic
// in a specific event against a line.
type Selection struct {
	EventID      string  `json:"event_id" validate:"required"`
	EntityID     string  `json:"entity_id" validate:"required"`
	StatCategory string  `json:"stat_category" validate:"required"`
	Line         float64 `json:"line"`
	Side         Side    `json:"side" validate:"required,oneof=over under"`
	Description  string  `json:"description,omitempty"`
}

// Grouping keys used by correlation detection. EventStatKey and
// EntityStatKey describe the same underlying relationship at different
// granularity; penalties derived from them must not stack.
func (s *Selection) EventKey() string {
	return s.EventID
}

// EntityKey groups candidates wagering on the same entity.
func (s *Selection) EntityKey() string {
	return fmt.Sprintf("%s|%s", s.EventID, s.EntityID)
}

// EventStatKey groups candidates wagering the same statistic in one event.
func (s *Selection) EventStatKey() string {
	return fmt.Sprintf("%s|%s", s.EventID, s.StatCategory)
}

// EntityStatKey groups candidates wagering the same entity statistic.
func (s *Selection) EntityStatKey() string {
	return fmt.Sprintf("%s|%s|%s", s.EventID, s.EntityID, s.StatCategory)
}

// CandidateInput bundles everything the engine needs to evaluate one
// wager: the selection, its observation history, the market quote and
// resolved context factors. Inputs arrive cleaned and deduplicated.
type CandidateInput struct {
	ID           string            `json:"id" validate:"required"`
	Selection    Selection         `json:"selection" validate:"required"`
	Observations ObservationSeries `json:"observations" validate:"required"`
	Quote        MarketQuote       `json:"quote" validate:"required"`
	Context      ContextFactors    `json:"context"`
	// PriorOverride replaces the configured shrinkage prior for this
	// candidate when the collaborator has a better stat-level prior.
	PriorOverride *float64 `json:"prior_override,omitempty" validate:"omitempty,gt=0,lt=1"`
}

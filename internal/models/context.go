package models

// ContextFactors is the fixed set of contextual signals resolved by
// collaborators before evaluation. Each field is validated
// independently; the engine clamps and combines them.
type ContextFactors struct {
	// TeamPace and OpponentPace are possessions-per-game style tempo
	// numbers; LeaguePace is the league average used for normalization.
	TeamPace     float64 `json:"team_pace" validate:"omitempty,gt=0"`
	OpponentPace float64 `json:"opponent_pace" validate:"omitempty,gt=0"`
	LeaguePace   float64 `json:"league_pace" validate:"omitempty,gt=0"`

	// OpposingDefenseRating is the opponent's defensive strength for the
	// wagered statistic relative to league average (1.0 = average,
	// above 1.0 = tougher defense).
	OpposingDefenseRating float64 `json:"opposing_defense_rating" validate:"omitempty,gt=0"`

	// RoleChanged flags a recent rotation/role change for the entity.
	RoleChanged bool `json:"role_changed"`

	// UsageShift is the relative change in recent exposure versus the
	// season baseline, e.g. 0.25 for a 25% minutes increase.
	UsageShift float64 `json:"usage_shift" validate:"omitempty,gte=-1,lte=1"`
}

// HasPaceData reports whether all pace inputs are present.
func (c *ContextFactors) HasPaceData() bool {
	return c.TeamPace > 0 && c.OpponentPace > 0 && c.LeaguePace > 0
}

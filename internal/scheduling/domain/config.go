package domain

// SolverConfig is the tunable behavior of one solve call: which optional
// constraint families are active, their objective weights, and the
// backend's time budget.
type SolverConfig struct {
	MaxConsecutiveDays  int
	TimeLimitSeconds    float64
	MinShiftIntervalHours int

	EnablePreferredShift    bool
	EnableFairness          bool
	EnableWeekendFairness   bool
	EnableSoftStaffing      bool
	EnableShiftInterval     bool
	EnableRoleStaffing      bool
	EnableWeeklyMinimum     bool

	WeightPreferred      float64
	WeightFairness       float64
	WeightWeekendFairness float64
	WeightSoftStaffing   float64
}

// WithMaxConsecutiveDays returns a copy of the config with the consecutive
// days cap overridden. Used by the relaxation prober (spec.md §4.5,
// "C4_consecutive: set max_consecutive_days to practically unbounded").
// Config is a value type so the prober mutates a copy, never the caller's.
func (c SolverConfig) WithMaxConsecutiveDays(days int) SolverConfig {
	c.MaxConsecutiveDays = days
	return c
}

// WithEnableSoftStaffing returns a copy with soft staffing toggled on.
func (c SolverConfig) WithEnableSoftStaffing(enabled bool, weight float64) SolverConfig {
	c.EnableSoftStaffing = enabled
	if enabled && c.WeightSoftStaffing == 0 {
		c.WeightSoftStaffing = weight
	}
	return c
}

// WithEnableShiftInterval returns a copy with the inter-shift rest
// constraint toggled.
func (c SolverConfig) WithEnableShiftInterval(enabled bool) SolverConfig {
	c.EnableShiftInterval = enabled
	return c
}

// WithEnableRoleStaffing returns a copy with role-based staffing toggled.
func (c SolverConfig) WithEnableRoleStaffing(enabled bool) SolverConfig {
	c.EnableRoleStaffing = enabled
	return c
}

// WithEnableWeeklyMinimum returns a copy with the weekly-minimum constraint
// toggled.
func (c SolverConfig) WithEnableWeeklyMinimum(enabled bool) SolverConfig {
	c.EnableWeeklyMinimum = enabled
	return c
}

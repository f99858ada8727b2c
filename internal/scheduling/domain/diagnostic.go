package domain

// ConstraintTag identifies which family of constraint a DiagnosticItem or
// constraint label belongs to. Values are the ones named in spec.md §4.4's
// category-to-diagnostic mapping plus the two cross-cutting outcomes
// ("combined", "timeout").
type ConstraintTag string

const (
	TagStaffing     ConstraintTag = "C2_staffing"
	TagUnavailable  ConstraintTag = "C3_unavailable"
	TagConsecutive  ConstraintTag = "C4_consecutive"
	TagWeeklyMax    ConstraintTag = "C5_weekly_max"
	TagInterval     ConstraintTag = "B4_interval"
	TagRoleStaffing ConstraintTag = "B5_role_staffing"
	TagMinDays      ConstraintTag = "B6_min_days"
	TagCombined     ConstraintTag = "combined"
	TagTimeout      ConstraintTag = "timeout"
)

// Severity classifies how serious a DiagnosticItem is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DiagnosticItem is one ranked explanation of why a solve could not produce
// assignments (or, for "timeout", why it gave up without one).
type DiagnosticItem struct {
	ConstraintTag ConstraintTag
	Severity      Severity
	Message       string
}

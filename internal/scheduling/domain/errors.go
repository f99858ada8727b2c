package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for snapshot construction. The core itself assumes
// validated input (spec.md §7: "programmer errors in the snapshot ... are
// the caller's responsibility"); these exist for the data-producing
// collaborators (persistence, recurrence expansion) that build a Snapshot
// before handing it to solve.
var (
	ErrMinExceedsMax    = errors.New("min_days_per_week exceeds max_days_per_week")
	ErrDanglingSlotID   = errors.New("requirement references an unknown shift slot")
	ErrDanglingStaffID  = errors.New("request references an unknown staff member")
	ErrRequestOutsidePeriod = errors.New("request date falls outside the schedule period")
	ErrInvalidDayRange  = errors.New("period end date precedes start date")
)

// ValidateStaff checks the invariants spec.md §3 states for Staff: min ≤
// max, both within [0,7].
func ValidateStaff(s Staff) error {
	if s.MinDaysPerWeek < 0 || s.MinDaysPerWeek > 7 || s.MaxDaysPerWeek < 0 || s.MaxDaysPerWeek > 7 {
		return fmt.Errorf("staff %s: days-per-week out of [0,7]", s.ID)
	}
	if s.MinDaysPerWeek > s.MaxDaysPerWeek {
		return fmt.Errorf("staff %s: %w", s.ID, ErrMinExceedsMax)
	}
	return nil
}

// ValidatePeriod checks that a period's dates are well-ordered.
func ValidatePeriod(p SchedulePeriod) error {
	if p.EndDate.Before(p.StartDate) {
		return ErrInvalidDayRange
	}
	return nil
}

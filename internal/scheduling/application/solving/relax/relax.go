// Package relax implements the relaxation-prober fallback of spec.md §4.5:
// when the backend has no IIS facility (or the IIS search returns no
// constraint labels), re-solve the instance once per catalog entry with
// exactly one constraint category neutralized, and report whichever
// neutralization restores feasibility.
package relax

import (
	"context"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/driver"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/modelbuild"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// defaultSoftStaffingWeight is substituted when C2_staffing's relaxation is
// tried against a config whose weight_soft_staffing was never set.
const defaultSoftStaffingWeight = 1.0

// unboundedMaxDaysPerWeek is what C5_weekly_max's relaxation overrides
// every staff member's max_days_per_week to: a full 7-day week, spec.md
// §4.5's "override each staff's max_days_per_week to 7".
const unboundedMaxDaysPerWeek = 7

type relaxation struct {
	tag     domain.ConstraintTag
	remedy  string
	precond func(domain.Snapshot) bool
	mutate  func(domain.Snapshot) domain.Snapshot
}

var catalog = []relaxation{
	{
		tag:     domain.TagStaffing,
		remedy:  "enable soft-staffing would restore feasibility",
		precond: func(s domain.Snapshot) bool { return !s.Config.EnableSoftStaffing },
		mutate: func(s domain.Snapshot) domain.Snapshot {
			s.Config = s.Config.WithEnableSoftStaffing(true, defaultSoftStaffingWeight)
			return s
		},
	},
	{
		tag:     domain.TagConsecutive,
		remedy:  "raising max_consecutive_days would restore feasibility",
		precond: func(domain.Snapshot) bool { return true },
		mutate: func(s domain.Snapshot) domain.Snapshot {
			s.Config = s.Config.WithMaxConsecutiveDays(practicallyUnboundedConsecutiveDays)
			return s
		},
	},
	{
		tag:     domain.TagWeeklyMax,
		remedy:  "raising weekly maximum for all staff would restore feasibility",
		precond: func(domain.Snapshot) bool { return true },
		mutate: func(s domain.Snapshot) domain.Snapshot {
			overridden := make([]domain.Staff, len(s.Staff))
			for i, st := range s.Staff {
				st.MaxDaysPerWeek = unboundedMaxDaysPerWeek
				overridden[i] = st
			}
			s.Staff = overridden
			return s
		},
	},
	{
		tag:     domain.TagInterval,
		remedy:  "disabling the inter-shift interval would restore feasibility",
		precond: func(s domain.Snapshot) bool { return s.Config.EnableShiftInterval },
		mutate: func(s domain.Snapshot) domain.Snapshot {
			s.Config = s.Config.WithEnableShiftInterval(false)
			return s
		},
	},
	{
		tag:     domain.TagRoleStaffing,
		remedy:  "disabling role staffing would restore feasibility",
		precond: func(s domain.Snapshot) bool { return s.Config.EnableRoleStaffing },
		mutate: func(s domain.Snapshot) domain.Snapshot {
			s.Config = s.Config.WithEnableRoleStaffing(false)
			return s
		},
	},
	{
		tag:     domain.TagMinDays,
		remedy:  "disabling the weekly minimum would restore feasibility",
		precond: func(s domain.Snapshot) bool { return s.Config.EnableWeeklyMinimum },
		mutate: func(s domain.Snapshot) domain.Snapshot {
			s.Config = s.Config.WithEnableWeeklyMinimum(false)
			return s
		},
	},
	{
		tag:     domain.TagUnavailable,
		remedy:  "dropping all unavailable requests would restore feasibility",
		precond: hasUnavailableRequest,
		mutate:  dropUnavailableRequests,
	},
}

// practicallyUnboundedConsecutiveDays is this package's own copy of the
// "treat as infinity" constant spec.md §4.5 calls for; it belongs to the
// relaxation it serves rather than to domain.SolverConfig's general-purpose
// mutator.
const practicallyUnboundedConsecutiveDays = 999

func hasUnavailableRequest(s domain.Snapshot) bool {
	for _, r := range s.StaffRequests {
		if r.Type == domain.RequestUnavailable {
			return true
		}
	}
	return false
}

func dropUnavailableRequests(s domain.Snapshot) domain.Snapshot {
	kept := make([]domain.StaffRequest, 0, len(s.StaffRequests))
	for _, r := range s.StaffRequests {
		if r.Type != domain.RequestUnavailable {
			kept = append(kept, r)
		}
	}
	s.StaffRequests = kept
	return s
}

// Probe tries each catalog relaxation whose precondition holds against
// snap, re-solving through backend with diagnostics disabled on the
// modified snapshot (the recursion guard of spec.md §9). It returns one
// DiagnosticItem per relaxation that restores feasibility, or a single
// "combined" item if none does.
func Probe(ctx context.Context, backend milp.Backend, snap domain.Snapshot, timeLimit time.Duration) ([]domain.DiagnosticItem, error) {
	var found []domain.DiagnosticItem

	for _, r := range catalog {
		if !r.precond(snap) {
			continue
		}
		trial := r.mutate(snap)
		trial.SkipDiagnostics = true

		built := modelbuild.Build(trial)
		outcome, err := driver.Drive(ctx, backend, built, timeLimit)
		if err != nil {
			return nil, err
		}
		if outcome.Result.Status == domain.StatusOptimal {
			found = append(found, domain.DiagnosticItem{
				ConstraintTag: r.tag,
				Severity:      domain.SeverityError,
				Message:       r.remedy,
			})
		}
	}

	if len(found) == 0 {
		return []domain.DiagnosticItem{{
			ConstraintTag: domain.TagCombined,
			Severity:      domain.SeverityError,
			Message:       "no single relaxation restores feasibility; the instance is infeasible for a combination of reasons",
		}}, nil
	}
	return found, nil
}

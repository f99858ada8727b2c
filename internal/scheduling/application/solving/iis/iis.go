// Package iis implements the infeasibility-diagnostic pass of spec.md §4.4
// as a generic deletion-filter (QuickXplain-style) search layered on any
// milp.Backend, rather than depending on backend-native IIS extraction:
// "the backend exposes an irreducible infeasible subsystem" (spec.md §2) is
// read as a capability the solver-driver layer can supply to every backend
// uniformly, since no committed nextmv-io/sdk/mip API surface for reading
// back simplex row state is assumed here.
package iis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/google/uuid"
)

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FindMinimalInfeasibleLabels runs a deletion filter over model's
// constraints: starting from the full (infeasible) constraint set, each
// constraint is tentatively dropped and the remainder re-solved; a
// constraint that can be dropped without restoring feasibility is removed
// permanently, one that cannot is kept. What remains when every constraint
// has been tried is an irreducible infeasible subsystem's labels.
//
// This costs up to len(model.Constraints) extra solves, each bounded by
// perSolveTimeLimit; callers on large instances should budget accordingly.
func FindMinimalInfeasibleLabels(ctx context.Context, backend milp.Backend, model milp.Model, perSolveTimeLimit time.Duration) ([]string, error) {
	working := append([]milp.Constraint(nil), model.Constraints...)

	for i := 0; i < len(working); {
		candidate := withoutIndex(working, i)
		sub := milp.Model{Vars: model.Vars, Objective: model.Objective, Constraints: candidate}
		sol, err := backend.Solve(ctx, sub, perSolveTimeLimit)
		if err != nil {
			return nil, fmt.Errorf("iis probe via backend %q: %w", backend.Name(), err)
		}
		if sol.Status == milp.Infeasible {
			working = candidate
			continue
		}
		i++
	}

	labels := make([]string, len(working))
	for i, c := range working {
		labels[i] = c.Label
	}
	return labels, nil
}

func withoutIndex(cs []milp.Constraint, i int) []milp.Constraint {
	out := make([]milp.Constraint, 0, len(cs)-1)
	out = append(out, cs[:i]...)
	out = append(out, cs[i+1:]...)
	return out
}

// category maps a constraint label's prefix to the fixed taxonomy of
// spec.md §4.4. Labels outside this mapping (one_, fairmax_, fairmin_,
// wfairmax_, wfairmin_) describe structural rows that are never themselves
// a useful remediation target, so they are not bucketed.
func category(label string) (domain.ConstraintTag, bool) {
	prefix, _, _ := strings.Cut(label, "_")
	switch prefix {
	case "staffing":
		return domain.TagStaffing, true
	case "unavail":
		return domain.TagUnavailable, true
	case "consec":
		return domain.TagConsecutive, true
	case "weekly":
		return domain.TagWeeklyMax, true
	case "interval":
		return domain.TagInterval, true
	case "role":
		return domain.TagRoleStaffing, true
	case "mindays":
		return domain.TagMinDays, true
	default:
		return "", false
	}
}

var remedyMessage = map[domain.ConstraintTag]string{
	domain.TagStaffing:     "reduce required counts or enable soft-staffing",
	domain.TagUnavailable:  "too many unavailability entries",
	domain.TagConsecutive:  "raise max consecutive days",
	domain.TagWeeklyMax:    "raise weekly maximum",
	domain.TagInterval:     "shorten or disable inter-shift interval",
	domain.TagRoleStaffing: "adjust role requirements",
	domain.TagMinDays:      "lower weekly minimum",
}

const maxExamples = 3

// Diagnose buckets an IIS's labels by category and emits one DiagnosticItem
// per non-empty bucket, each message naming up to three representative
// examples drawn from snap. An IIS whose labels map to no known category
// yields a single "combined" item.
func Diagnose(labels []string, snap domain.Snapshot) []domain.DiagnosticItem {
	buckets := make(map[domain.ConstraintTag][]string)
	var order []domain.ConstraintTag
	for _, label := range labels {
		tag, ok := category(label)
		if !ok {
			continue
		}
		if _, seen := buckets[tag]; !seen {
			order = append(order, tag)
		}
		buckets[tag] = append(buckets[tag], describe(label, snap))
	}

	if len(order) == 0 {
		return []domain.DiagnosticItem{{
			ConstraintTag: domain.TagCombined,
			Severity:      domain.SeverityError,
			Message:       "the instance is infeasible but no single constraint category explains it",
		}}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	items := make([]domain.DiagnosticItem, 0, len(order))
	for _, tag := range order {
		examples := buckets[tag]
		if len(examples) > maxExamples {
			examples = examples[:maxExamples]
		}
		items = append(items, domain.DiagnosticItem{
			ConstraintTag: tag,
			Severity:      domain.SeverityError,
			Message:       fmt.Sprintf("%s: %s (e.g. %s)", remedyMessage[tag], strings.Join(examples, "; "), examples[0]),
		})
	}
	return items
}

// describe reconstructs a human-readable example from a label's components,
// falling back to the raw label when a referenced slot or staff ID is not
// present in snap.
func describe(label string, snap domain.Snapshot) string {
	parts := strings.Split(label, "_")
	if len(parts) < 2 {
		return label
	}

	dateAt := func(i int) (string, bool) {
		if i < 0 || i >= len(parts) {
			return "", false
		}
		d, err := domain.ParseCompact(parts[i])
		if err != nil {
			return "", false
		}
		return d.String(), true
	}
	slotName := func(i int) string {
		if i < 0 || i >= len(parts) {
			return ""
		}
		id, err := parseUUID(parts[i])
		if err != nil {
			return parts[i]
		}
		if slot, ok := snap.SlotByID(id); ok {
			return slot.Name
		}
		return parts[i]
	}
	staffName := func(i int) string {
		if i < 0 || i >= len(parts) {
			return ""
		}
		id, err := parseUUID(parts[i])
		if err != nil {
			return parts[i]
		}
		if s, ok := snap.StaffByID(id); ok {
			return s.Name
		}
		return parts[i]
	}

	switch parts[0] {
	case "staffing":
		if d, ok := dateAt(1); ok {
			return fmt.Sprintf("%s, slot %s", d, slotName(2))
		}
	case "unavail", "weekly", "mindays", "consec":
		if d, ok := dateAt(2); ok {
			return fmt.Sprintf("%s on %s", staffName(1), d)
		}
	case "interval":
		if d, ok := dateAt(2); ok {
			return fmt.Sprintf("%s, %s -> %s", d, slotName(3), slotName(4))
		}
	case "role":
		if d, ok := dateAt(2); ok {
			return fmt.Sprintf("%s, slot %s", d, slotName(3))
		}
	}
	return label
}

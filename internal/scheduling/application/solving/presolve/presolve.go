// Package presolve runs the deterministic, solver-free sanity checks of
// spec.md §4.1: arithmetic headroom checks that can prove an instance
// infeasible (or at least badly shaped) without ever invoking an MILP
// backend. A non-empty presolve result short-circuits the rest of the
// diagnostic pipeline (spec.md §4.6) because these are problems no solver
// run could repair.
package presolve

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// Run evaluates snap and returns every DiagnosticItem the arithmetic checks
// find. An empty slice means presolve found nothing amiss; it does not by
// itself mean the instance is feasible.
func Run(snap domain.Snapshot) []domain.DiagnosticItem {
	var items []domain.DiagnosticItem
	items = append(items, staffingHeadroom(snap)...)
	items = append(items, weeklyCapacity(snap)...)
	if snap.Config.EnableRoleStaffing {
		items = append(items, roleEligibility(snap)...)
	}
	return items
}

func staffingHeadroom(snap domain.Snapshot) []domain.DiagnosticItem {
	var items []domain.DiagnosticItem
	for _, d := range snap.Period.Dates() {
		unavailableCount := 0
		anyUnavailable := false
		for _, s := range snap.Staff {
			if domain.UnavailableOn(snap.StaffRequests, s.ID, d) {
				unavailableCount++
				anyUnavailable = true
			}
		}
		for _, t := range snap.ShiftSlots {
			req, ok := domain.StaffingRequirementFor(snap.StaffingRequirements, t.ID, d.DayType())
			if !ok || req.MinCount <= 0 {
				continue
			}
			available := len(snap.Staff) - unavailableCount
			if available >= req.MinCount {
				continue
			}
			tag, msg := domain.TagStaffing, fmt.Sprintf(
				"only %d of %d staff available for %s on %s, but %d are required",
				available, len(snap.Staff), t.Name, d.String(), req.MinCount)
			if anyUnavailable {
				tag, msg = domain.TagUnavailable, fmt.Sprintf(
					"%d unavailability entries leave only %d staff for %s on %s, below the required %d",
					unavailableCount, available, t.Name, d.String(), req.MinCount)
			}
			items = append(items, domain.DiagnosticItem{ConstraintTag: tag, Severity: domain.SeverityError, Message: msg})
		}
	}
	return items
}

func weeklyCapacity(snap domain.Snapshot) []domain.DiagnosticItem {
	capacity := 0
	for _, s := range snap.Staff {
		capacity += s.MaxDaysPerWeek
	}

	weeks := make(map[domain.Date][]domain.Date)
	var order []domain.Date
	for _, d := range snap.Period.Dates() {
		ws := d.WeekStart()
		if _, seen := weeks[ws]; !seen {
			order = append(order, ws)
		}
		weeks[ws] = append(weeks[ws], d)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	var items []domain.DiagnosticItem
	for _, ws := range order {
		required := 0
		for _, d := range weeks[ws] {
			for _, t := range snap.ShiftSlots {
				if req, ok := domain.StaffingRequirementFor(snap.StaffingRequirements, t.ID, d.DayType()); ok {
					required += req.MinCount
				}
			}
		}
		if required > capacity {
			items = append(items, domain.DiagnosticItem{
				ConstraintTag: domain.TagWeeklyMax,
				Severity:      domain.SeverityError,
				Message: fmt.Sprintf(
					"week of %s needs %d person-days but staff capacity is only %d",
					ws.String(), required, capacity),
			})
		}
	}
	return items
}

func roleEligibility(snap domain.Snapshot) []domain.DiagnosticItem {
	roleCounts := make(map[string]int)
	for _, s := range snap.Staff {
		roleCounts[s.Role]++
	}

	var items []domain.DiagnosticItem
	for _, req := range snap.RoleStaffingRequirements {
		if roleCounts[req.Role] < req.MinCount {
			items = append(items, domain.DiagnosticItem{
				ConstraintTag: domain.TagRoleStaffing,
				Severity:      domain.SeverityError,
				Message: fmt.Sprintf(
					"role %q has %d staff but requirement needs at least %d",
					req.Role, roleCounts[req.Role], req.MinCount),
			})
		}
	}
	return items
}

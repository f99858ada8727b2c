// Package modelbuild translates a domain.Snapshot into a milp.Model: binary
// assignment variables, the optional fairness/soft-staffing auxiliaries,
// objective terms gated by SolverConfig's enable flags, and every labeled
// hard constraint of spec.md §4.2. It is the largest component of the core,
// grounded on the nextmv-io-community-apps shift-scheduling example's
// newMIPModel (variable-per-triple, one labeled mip.NewConstraint per rule)
// translated onto this repository's own milp.Model so the same builder output
// can drive either solver backend.
package modelbuild

import (
	"sort"
	"strconv"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/google/uuid"
)

// AssignableVar pairs a binary decision variable with the (staff, date,
// slot) triple it represents, so the solver driver can turn a Solution back
// into Assignments without re-deriving the model builder's iteration order
// (spec.md §9: "a parallel name table only if the backend requires string
// labels"; here the driver requires it, the backend does not).
type AssignableVar struct {
	Var         milp.VarRef
	StaffID     uuid.UUID
	Date        domain.Date
	ShiftSlotID uuid.UUID
}

// Built is a Model plus the side tables the rest of the pipeline needs to
// interpret it.
type Built struct {
	Model      *milp.Model
	Assignable []AssignableVar
}

type xKey struct {
	staff uuid.UUID
	date  domain.Date
	slot  uuid.UUID
}

type dateSlot struct {
	date domain.Date
	slot uuid.UUID
}

// Build constructs the MILP for snap. Iteration is over staff sorted by
// name then ID, dates in calendar order, and slots sorted by name then ID,
// matching spec.md §5's determinism requirement.
func Build(snap domain.Snapshot) Built {
	staff := sortedStaff(snap.Staff)
	slots := sortedSlots(snap.ShiftSlots)
	dates := snap.Period.Dates()

	m := &milp.Model{}
	x := make(map[xKey]milp.VarRef, len(staff)*len(dates)*len(slots))
	var assignable []AssignableVar

	for _, s := range staff {
		for _, d := range dates {
			for _, t := range slots {
				ref := m.NewBinary("x_" + s.ID.String() + "_" + d.Compact() + "_" + t.ID.String())
				x[xKey{s.ID, d, t.ID}] = ref
				assignable = append(assignable, AssignableVar{Var: ref, StaffID: s.ID, Date: d, ShiftSlotID: t.ID})
				// base objective term: +1 per assignment; the constant
				// -Σmin_count that spec.md §4.2 also names does not affect
				// the argmin and is not represented.
				m.AddObjectiveTerm(1, ref)
			}
		}
	}

	u := make(map[dateSlot]milp.VarRef)
	if snap.Config.EnableSoftStaffing {
		for _, d := range dates {
			for _, t := range slots {
				if _, ok := domain.StaffingRequirementFor(snap.StaffingRequirements, t.ID, d.DayType()); !ok {
					continue
				}
				ref := m.NewContinuous("u_"+d.Compact()+"_"+t.ID.String(), 0, float64(len(staff)))
				u[dateSlot{d, t.ID}] = ref
				m.AddObjectiveTerm(snap.Config.WeightSoftStaffing, ref)
			}
		}
	}

	if snap.Config.EnablePreferredShift {
		addPreferredTerms(m, x, staff, dates, slots, snap)
	}

	var zMax, zMin milp.VarRef
	if snap.Config.EnableFairness {
		zMax = m.NewContinuous("z_max", 0, float64(len(dates)))
		zMin = m.NewContinuous("z_min", 0, float64(len(dates)))
		m.AddObjectiveTerm(snap.Config.WeightFairness, zMax)
		m.AddObjectiveTerm(-snap.Config.WeightFairness, zMin)
	}

	weekendDates := filterDates(dates, func(d domain.Date) bool { return d.DayType() == domain.DayTypeWeekend })
	var zwMax, zwMin milp.VarRef
	weekendFairnessActive := snap.Config.EnableWeekendFairness && len(weekendDates) > 0
	if weekendFairnessActive {
		zwMax = m.NewContinuous("zw_max", 0, float64(len(weekendDates)))
		zwMin = m.NewContinuous("zw_min", 0, float64(len(weekendDates)))
		m.AddObjectiveTerm(snap.Config.WeightWeekendFairness, zwMax)
		m.AddObjectiveTerm(-snap.Config.WeightWeekendFairness, zwMin)
	}

	addOneSlotPerDay(m, x, staff, dates, slots)
	addStaffingCoverage(m, x, u, staff, dates, slots, snap)
	addUnavailability(m, x, staff, dates, slots, snap)
	addConsecutiveCap(m, x, staff, dates, slots, snap)
	addWeeklyBounds(m, x, staff, dates, slots, snap)

	if snap.Config.EnableShiftInterval {
		addShiftInterval(m, x, staff, dates, slots, snap)
	}
	if snap.Config.EnableRoleStaffing {
		addRoleStaffing(m, x, staff, dates, slots, snap)
	}
	if snap.Config.EnableFairness {
		addFairnessBrackets(m, x, staff, dates, slots, zMax, zMin)
	}
	if weekendFairnessActive {
		addWeekendFairnessBrackets(m, x, staff, weekendDates, slots, zwMax, zwMin)
	}

	return Built{Model: m, Assignable: assignable}
}

func sortedStaff(in []domain.Staff) []domain.Staff {
	out := make([]domain.Staff, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func sortedSlots(in []domain.ShiftSlot) []domain.ShiftSlot {
	out := make([]domain.ShiftSlot, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func filterDates(in []domain.Date, keep func(domain.Date) bool) []domain.Date {
	out := make([]domain.Date, 0, len(in))
	for _, d := range in {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func addPreferredTerms(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	w := snap.Config.WeightPreferred
	for _, s := range staff {
		for _, d := range dates {
			for _, t := range slots {
				if domain.PreferredFor(snap.StaffRequests, s.ID, t.ID, d) {
					m.AddObjectiveTerm(-w, x[xKey{s.ID, d, t.ID}])
				}
			}
		}
	}
}

func addOneSlotPerDay(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot) {
	for _, s := range staff {
		for _, d := range dates {
			idx := m.AddConstraint("one_"+s.ID.String()+"_"+d.Compact(), milp.LessThanOrEqual, 1)
			for _, t := range slots {
				m.AppendTerm(idx, 1, x[xKey{s.ID, d, t.ID}])
			}
		}
	}
}

func addStaffingCoverage(m *milp.Model, x map[xKey]milp.VarRef, u map[dateSlot]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	for _, d := range dates {
		for _, t := range slots {
			req, ok := domain.StaffingRequirementFor(snap.StaffingRequirements, t.ID, d.DayType())
			if !ok {
				continue
			}
			idx := m.AddConstraint("staffing_"+d.Compact()+"_"+t.ID.String(), milp.GreaterThanOrEqual, float64(req.MinCount))
			for _, s := range staff {
				m.AppendTerm(idx, 1, x[xKey{s.ID, d, t.ID}])
			}
			if slack, ok := u[dateSlot{d, t.ID}]; ok {
				m.AppendTerm(idx, 1, slack)
			}
		}
	}
}

func addUnavailability(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	for _, s := range staff {
		for _, d := range dates {
			if !domain.UnavailableOn(snap.StaffRequests, s.ID, d) {
				continue
			}
			for _, t := range slots {
				idx := m.AddConstraint("unavail_"+s.ID.String()+"_"+d.Compact()+"_"+t.ID.String(), milp.Equal, 0)
				m.AppendTerm(idx, 1, x[xKey{s.ID, d, t.ID}])
			}
		}
	}
}

// addConsecutiveCap emits one constraint per length-(K+1) window per staff,
// for every window that overlaps the period (a window running past the
// period's last date keeps only its in-period dates), including windows
// that start before the period (spec.md §9's cross-period
// continuity resolution): days before the period contribute as a constant
// drawn from snap.PrefixAssignments rather than a variable.
func addConsecutiveCap(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	if len(dates) == 0 {
		return
	}
	k := snap.Config.MaxConsecutiveDays
	periodStart, periodEnd := dates[0], dates[len(dates)-1]

	for _, s := range staff {
		prefix := prefixSet(snap.PrefixAssignments[s.ID])
		for windowStart := periodStart.AddDays(-k); !windowStart.After(periodEnd); windowStart = windowStart.AddDays(1) {
			window := domain.DatesBetween(windowStart, windowStart.AddDays(k))
			inPeriod := make([]domain.Date, 0, len(window))
			priorAssigned := 0
			for _, d := range window {
				if d.Before(periodStart) {
					if prefix[d] {
						priorAssigned++
					}
					continue
				}
				if d.After(periodEnd) {
					continue
				}
				inPeriod = append(inPeriod, d)
			}
			if len(inPeriod) == 0 {
				continue
			}
			rhs := float64(k - priorAssigned)
			idx := m.AddConstraint("consec_"+s.ID.String()+"_"+windowStart.Compact(), milp.LessThanOrEqual, rhs)
			for _, d := range inPeriod {
				for _, t := range slots {
					m.AppendTerm(idx, 1, x[xKey{s.ID, d, t.ID}])
				}
			}
		}
	}
}

func prefixSet(dates []domain.Date) map[domain.Date]bool {
	set := make(map[domain.Date]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set
}

func addWeeklyBounds(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	weeks := weekBuckets(dates)
	for _, s := range staff {
		for _, week := range weeks {
			idx := m.AddConstraint("weekly_"+s.ID.String()+"_"+week.start.Compact(), milp.LessThanOrEqual, float64(s.MaxDaysPerWeek))
			for _, d := range week.dates {
				for _, t := range slots {
					m.AppendTerm(idx, 1, x[xKey{s.ID, d, t.ID}])
				}
			}
			if snap.Config.EnableWeeklyMinimum && s.MinDaysPerWeek > 0 {
				minIdx := m.AddConstraint("mindays_"+s.ID.String()+"_"+week.start.Compact(), milp.GreaterThanOrEqual, float64(s.MinDaysPerWeek))
				for _, d := range week.dates {
					for _, t := range slots {
						m.AppendTerm(minIdx, 1, x[xKey{s.ID, d, t.ID}])
					}
				}
			}
		}
	}
}

type week struct {
	start domain.Date
	dates []domain.Date
}

func weekBuckets(dates []domain.Date) []week {
	order := make([]domain.Date, 0)
	byStart := make(map[domain.Date][]domain.Date)
	for _, d := range dates {
		ws := d.WeekStart()
		if _, seen := byStart[ws]; !seen {
			order = append(order, ws)
		}
		byStart[ws] = append(byStart[ws], d)
	}
	weeks := make([]week, 0, len(order))
	for _, ws := range order {
		weeks = append(weeks, week{start: ws, dates: byStart[ws]})
	}
	return weeks
}

func addShiftInterval(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	h := snap.Config.MinShiftIntervalHours
	for _, s := range staff {
		for i := 0; i < len(dates)-1; i++ {
			d, next := dates[i], dates[i+1]
			if !next.Equal(d.AddDays(1)) {
				continue
			}
			for _, a := range slots {
				for _, b := range slots {
					if !domain.IntervalConflict(a, b, h) {
						continue
					}
					label := "interval_" + s.ID.String() + "_" + d.Compact() + "_" + a.ID.String() + "_" + b.ID.String()
					idx := m.AddConstraint(label, milp.LessThanOrEqual, 1)
					m.AppendTerm(idx, 1, x[xKey{s.ID, d, a.ID}])
					m.AppendTerm(idx, 1, x[xKey{s.ID, next, b.ID}])
				}
			}
		}
	}
}

func addRoleStaffing(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, snap domain.Snapshot) {
	slotByID := make(map[uuid.UUID]domain.ShiftSlot, len(slots))
	for _, t := range slots {
		slotByID[t.ID] = t
	}
	for i, req := range snap.RoleStaffingRequirements {
		if _, ok := slotByID[req.ShiftSlotID]; !ok {
			continue
		}
		for _, d := range dates {
			if d.DayType() != req.DayType {
				continue
			}
			idx := m.AddConstraint("role_"+strconv.Itoa(i)+"_"+d.Compact()+"_"+req.ShiftSlotID.String(), milp.GreaterThanOrEqual, float64(req.MinCount))
			for _, s := range staff {
				if s.Role != req.Role {
					continue
				}
				m.AppendTerm(idx, 1, x[xKey{s.ID, d, req.ShiftSlotID}])
			}
		}
	}
}

func addFairnessBrackets(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, dates []domain.Date, slots []domain.ShiftSlot, zMax, zMin milp.VarRef) {
	for _, s := range staff {
		maxIdx := m.AddConstraint("fairmax_"+s.ID.String(), milp.LessThanOrEqual, 0)
		minIdx := m.AddConstraint("fairmin_"+s.ID.String(), milp.GreaterThanOrEqual, 0)
		for _, d := range dates {
			for _, t := range slots {
				m.AppendTerm(maxIdx, 1, x[xKey{s.ID, d, t.ID}])
				m.AppendTerm(minIdx, 1, x[xKey{s.ID, d, t.ID}])
			}
		}
		m.AppendTerm(maxIdx, -1, zMax)
		m.AppendTerm(minIdx, -1, zMin)
	}
}

func addWeekendFairnessBrackets(m *milp.Model, x map[xKey]milp.VarRef, staff []domain.Staff, weekendDates []domain.Date, slots []domain.ShiftSlot, zwMax, zwMin milp.VarRef) {
	for _, s := range staff {
		maxIdx := m.AddConstraint("wfairmax_"+s.ID.String(), milp.LessThanOrEqual, 0)
		minIdx := m.AddConstraint("wfairmin_"+s.ID.String(), milp.GreaterThanOrEqual, 0)
		for _, d := range weekendDates {
			for _, t := range slots {
				m.AppendTerm(maxIdx, 1, x[xKey{s.ID, d, t.ID}])
				m.AppendTerm(minIdx, 1, x[xKey{s.ID, d, t.ID}])
			}
		}
		m.AppendTerm(maxIdx, -1, zwMax)
		m.AppendTerm(minIdx, -1, zwMin)
	}
}

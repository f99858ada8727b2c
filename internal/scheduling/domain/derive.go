package domain

import "github.com/google/uuid"

// StaffingRequirementFor returns the min_count row for (slot, day type), or
// false if no row applies. Spec.md §3: "at most one row per (slot,day_type)
// is meaningful"; the first match wins.
func StaffingRequirementFor(reqs []StaffingRequirement, slotID uuid.UUID, dayType DayType) (StaffingRequirement, bool) {
	for _, r := range reqs {
		if r.ShiftSlotID == slotID && r.DayType == dayType {
			return r, true
		}
	}
	return StaffingRequirement{}, false
}

// RoleStaffingRequirementsFor returns every role requirement that applies
// to (slot, day type).
func RoleStaffingRequirementsFor(reqs []RoleStaffingRequirement, slotID uuid.UUID, dayType DayType) []RoleStaffingRequirement {
	out := make([]RoleStaffingRequirement, 0)
	for _, r := range reqs {
		if r.ShiftSlotID == slotID && r.DayType == dayType {
			out = append(out, r)
		}
	}
	return out
}

// IntervalConflict reports whether two shift slots (a on day D, b on day
// D+1) violate a minimum rest of minRestHours, per spec.md §3:
//
//	(1440 − end_minutes(a)) + start_minutes(b) < 60·H
//
// where end/start minutes are minute-of-day and the rest span crosses the
// intervening midnight. This derivation applies only to the "a on day D, b
// on day D+1" pairing; same-day pairs are governed by the one-slot-per-day
// constraint instead.
func IntervalConflict(a, b ShiftSlot, minRestHours int) bool {
	restMinutes := (1440 - a.EndTime.Minutes()) + b.StartTime.Minutes()
	return restMinutes < 60*minRestHours
}

// UnavailableOn reports whether any unavailable request blocks staffID on
// date d, per spec.md §3: an unavailable request always blocks every slot
// on the date regardless of its ShiftSlotID.
func UnavailableOn(requests []StaffRequest, staffID uuid.UUID, d Date) bool {
	for _, r := range requests {
		if r.Type == RequestUnavailable && r.StaffID == staffID && r.Date.Equal(d) {
			return true
		}
	}
	return false
}

// PreferredFor reports whether staffID has a preferred request matching
// (date, slot): either an exact (staff, date, slot) row, or a (staff, date)
// row with no slot, meaning "any slot that day" (spec.md §4.2).
func PreferredFor(requests []StaffRequest, staffID, slotID uuid.UUID, d Date) bool {
	for _, r := range requests {
		if r.Type != RequestPreferred || r.StaffID != staffID || !r.Date.Equal(d) {
			continue
		}
		if r.ShiftSlotID == nil || *r.ShiftSlotID == slotID {
			return true
		}
	}
	return false
}

// Package testutil provides small builder functions for constructing
// domain.Snapshot fixtures in tests, in place of per-test fixture files.
// Names and shapes follow backend/seed_demo.py's small cafe roster: three
// shift slots (early/mid/late) with weekday/weekend staffing counts.
// BasicStaff gives every member the same role and weekly cap; no builder
// here varies caps by role.
package testutil

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// BasicStaff returns n roster members with a five-day weekly cap and no
// minimum, named "Staff 1".."Staff n".
func BasicStaff(n int) []domain.Staff {
	staff := make([]domain.Staff, n)
	for i := range staff {
		staff[i] = domain.Staff{
			ID:             uuid.New(),
			Name:           nthName(i + 1),
			Role:           "staff",
			MaxDaysPerWeek: 5,
		}
	}
	return staff
}

func nthName(n int) string {
	return "Staff " + strconv.Itoa(n)
}

// WeekdaySlot returns a named shift slot running from startHour to
// endHour, mirroring seed_demo.py's early/mid/late cafe shifts.
func WeekdaySlot(name string, startHour, endHour int) domain.ShiftSlot {
	return domain.ShiftSlot{
		ID:        uuid.New(),
		Name:      name,
		StartTime: domain.NewClock(startHour, 0),
		EndTime:   domain.NewClock(endHour, 0),
	}
}

// CafeSlots returns the three shift slots seed_demo.py seeds for its demo
// cafe: an early (08:00-15:00), mid (11:00-18:00), and late (15:00-22:00)
// shift.
func CafeSlots() []domain.ShiftSlot {
	return []domain.ShiftSlot{
		WeekdaySlot("Early", 8, 15),
		WeekdaySlot("Mid", 11, 18),
		WeekdaySlot("Late", 15, 22),
	}
}

// StaffingRequirement returns a StaffingRequirement pinning minCount to the
// given slot and day type.
func StaffingRequirement(slotID uuid.UUID, dayType domain.DayType, minCount int) domain.StaffingRequirement {
	return domain.StaffingRequirement{
		ID:          uuid.New(),
		ShiftSlotID: slotID,
		DayType:     dayType,
		MinCount:    minCount,
	}
}

// CafeStaffingRequirements returns the weekday/weekend staffing
// requirements seed_demo.py sets for each of CafeSlots: one person on
// weekdays, two on weekends, for every slot.
func CafeStaffingRequirements(slots []domain.ShiftSlot) []domain.StaffingRequirement {
	reqs := make([]domain.StaffingRequirement, 0, len(slots)*2)
	for _, s := range slots {
		reqs = append(reqs,
			StaffingRequirement(s.ID, domain.DayTypeWeekday, 1),
			StaffingRequirement(s.ID, domain.DayTypeWeekend, 2),
		)
	}
	return reqs
}

// Period returns a SchedulePeriod spanning the inclusive date range, in
// draft status.
func Period(start, end domain.Date) domain.SchedulePeriod {
	return domain.SchedulePeriod{
		ID:        uuid.New(),
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodDraft,
	}
}

// UnavailableRequest returns a StaffRequest marking staffID unavailable on
// date, for every slot.
func UnavailableRequest(staffID uuid.UUID, date domain.Date) domain.StaffRequest {
	return domain.StaffRequest{
		ID:      uuid.New(),
		StaffID: staffID,
		Date:    date,
		Type:    domain.RequestUnavailable,
	}
}

// PreferredRequest returns a StaffRequest marking staffID's preference for
// slotID on date.
func PreferredRequest(staffID uuid.UUID, date domain.Date, slotID uuid.UUID) domain.StaffRequest {
	return domain.StaffRequest{
		ID:          uuid.New(),
		StaffID:     staffID,
		Date:        date,
		Type:        domain.RequestPreferred,
		ShiftSlotID: &slotID,
	}
}

// BasicSnapshot returns a minimal feasible Snapshot: n staff, one shift
// slot, a staffing requirement of 1 for every day type, over the given
// period. Tests needing more structure should build on CafeSlots and
// CafeStaffingRequirements instead.
func BasicSnapshot(n int, start, end domain.Date) domain.Snapshot {
	staff := BasicStaff(n)
	slot := WeekdaySlot("Day", 9, 17)
	return domain.Snapshot{
		Period:     Period(start, end),
		Staff:      staff,
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			StaffingRequirement(slot.ID, domain.DayTypeWeekday, 1),
			StaffingRequirement(slot.ID, domain.DayTypeWeekend, 1),
		},
		Config: domain.SolverConfig{MaxConsecutiveDays: 5},
	}
}

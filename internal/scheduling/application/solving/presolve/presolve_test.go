package presolve_test

import (
	"testing"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/presolve"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleDaySlot(minCount int) (domain.ShiftSlot, domain.SchedulePeriod, []domain.StaffingRequirement) {
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day"}
	day := domain.NewDate(2026, 3, 2)
	period := domain.SchedulePeriod{StartDate: day, EndDate: day}
	reqs := []domain.StaffingRequirement{{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: minCount}}
	return slot, period, reqs
}

func TestPresolveFindsStaffingShortfall(t *testing.T) {
	slot, period, reqs := singleDaySlot(2)
	snap := domain.Snapshot{
		Period:               period,
		Staff:                []domain.Staff{{ID: uuid.New(), MaxDaysPerWeek: 7}},
		ShiftSlots:           []domain.ShiftSlot{slot},
		StaffingRequirements: reqs,
	}

	items := presolve.Run(snap)

	require.Len(t, items, 1)
	assert.Equal(t, domain.TagStaffing, items[0].ConstraintTag)
}

func TestPresolveFindsUnavailabilityShortfall(t *testing.T) {
	slot, period, reqs := singleDaySlot(2)
	s1, s2 := domain.Staff{ID: uuid.New(), MaxDaysPerWeek: 7}, domain.Staff{ID: uuid.New(), MaxDaysPerWeek: 7}
	snap := domain.Snapshot{
		Period:               period,
		Staff:                []domain.Staff{s1, s2},
		ShiftSlots:           []domain.ShiftSlot{slot},
		StaffingRequirements: reqs,
		StaffRequests: []domain.StaffRequest{
			{StaffID: s1.ID, Date: period.StartDate, Type: domain.RequestUnavailable},
			{StaffID: s2.ID, Date: period.StartDate, Type: domain.RequestUnavailable},
		},
	}

	items := presolve.Run(snap)

	require.Len(t, items, 1)
	assert.Equal(t, domain.TagUnavailable, items[0].ConstraintTag)
}

func TestPresolveFindsWeeklyCapacityShortfall(t *testing.T) {
	slot := domain.ShiftSlot{ID: uuid.New()}
	period := domain.SchedulePeriod{
		StartDate: domain.NewDate(2026, 3, 2),
		EndDate:   domain.NewDate(2026, 3, 6),
	}
	reqs := []domain.StaffingRequirement{{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 2}}
	snap := domain.Snapshot{
		Period:               period,
		Staff:                []domain.Staff{{ID: uuid.New(), MaxDaysPerWeek: 1}, {ID: uuid.New(), MaxDaysPerWeek: 1}},
		ShiftSlots:           []domain.ShiftSlot{slot},
		StaffingRequirements: reqs,
	}

	items := presolve.Run(snap)

	require.Len(t, items, 1)
	assert.Equal(t, domain.TagWeeklyMax, items[0].ConstraintTag)
}

func TestPresolveFindsRoleShortfall(t *testing.T) {
	slot, period, _ := singleDaySlot(0)
	roleReq := domain.RoleStaffingRequirement{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, Role: "leader", MinCount: 1}
	snap := domain.Snapshot{
		Period:                   period,
		Staff:                    []domain.Staff{{ID: uuid.New(), Role: "general", MaxDaysPerWeek: 7}},
		ShiftSlots:               []domain.ShiftSlot{slot},
		RoleStaffingRequirements: []domain.RoleStaffingRequirement{roleReq},
		Config:                   domain.SolverConfig{EnableRoleStaffing: true},
	}

	items := presolve.Run(snap)

	require.Len(t, items, 1)
	assert.Equal(t, domain.TagRoleStaffing, items[0].ConstraintTag)
}

func TestPresolveCleanInstanceIsEmpty(t *testing.T) {
	slot, period, reqs := singleDaySlot(1)
	snap := domain.Snapshot{
		Period:               period,
		Staff:                []domain.Staff{{ID: uuid.New(), MaxDaysPerWeek: 7}},
		ShiftSlots:           []domain.ShiftSlot{slot},
		StaffingRequirements: reqs,
	}

	assert.Empty(t, presolve.Run(snap))
}

package orchestrate_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/orchestrate"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/solver/greedy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveBasicFeasibleScenario(t *testing.T) {
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day", StartTime: domain.NewClock(9, 0), EndTime: domain.NewClock(17, 0)}
	staff := []domain.Staff{
		{ID: uuid.New(), Name: "T", MaxDaysPerWeek: 5},
		{ID: uuid.New(), Name: "S", MaxDaysPerWeek: 5},
		{ID: uuid.New(), Name: "K", MaxDaysPerWeek: 5},
	}
	period := domain.SchedulePeriod{StartDate: domain.NewDate(2026, 3, 2), EndDate: domain.NewDate(2026, 3, 4)}
	snap := domain.Snapshot{
		Period:     period,
		Staff:      staff,
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 2},
		},
		Config: domain.SolverConfig{MaxConsecutiveDays: 5, TimeLimitSeconds: 5},
	}

	o := orchestrate.New(greedy.New())
	result, err := o.Solve(context.Background(), snap)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOptimal, result.Status)
	assert.GreaterOrEqual(t, len(result.Assignments), 6)
	assert.Empty(t, result.Diagnostics)
}

func TestSolveUnavailabilityRespected(t *testing.T) {
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day"}
	staffT := domain.Staff{ID: uuid.New(), Name: "T", MaxDaysPerWeek: 5}
	staffS := domain.Staff{ID: uuid.New(), Name: "S", MaxDaysPerWeek: 5}
	staffK := domain.Staff{ID: uuid.New(), Name: "K", MaxDaysPerWeek: 5}
	period := domain.SchedulePeriod{StartDate: domain.NewDate(2026, 3, 2), EndDate: domain.NewDate(2026, 3, 4)}
	snap := domain.Snapshot{
		Period:     period,
		Staff:      []domain.Staff{staffT, staffS, staffK},
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 2},
		},
		StaffRequests: []domain.StaffRequest{
			{StaffID: staffT.ID, Date: domain.NewDate(2026, 3, 2), Type: domain.RequestUnavailable},
		},
		Config: domain.SolverConfig{MaxConsecutiveDays: 5, TimeLimitSeconds: 5},
	}

	o := orchestrate.New(greedy.New())
	result, err := o.Solve(context.Background(), snap)

	require.NoError(t, err)
	require.Equal(t, domain.StatusOptimal, result.Status)
	for _, a := range result.Assignments {
		if a.StaffID == staffT.ID {
			assert.False(t, a.Date.Equal(domain.NewDate(2026, 3, 2)))
		}
	}
}

func TestSolveInfeasibleStaffingDiagnosedByPresolve(t *testing.T) {
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day"}
	period := domain.SchedulePeriod{StartDate: domain.NewDate(2026, 3, 2), EndDate: domain.NewDate(2026, 3, 2)}
	snap := domain.Snapshot{
		Period:     period,
		Staff:      []domain.Staff{{ID: uuid.New(), MaxDaysPerWeek: 7}},
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 2},
		},
		Config: domain.SolverConfig{MaxConsecutiveDays: 5, TimeLimitSeconds: 5},
	}

	o := orchestrate.New(greedy.New())
	result, err := o.Solve(context.Background(), snap)

	require.NoError(t, err)
	require.Equal(t, domain.StatusInfeasible, result.Status)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.TagStaffing, result.Diagnostics[0].ConstraintTag)
}

func TestSolveInfeasibleRescuedByRelaxationProber(t *testing.T) {
	// A single staff member covering every day of a 7-day period can never
	// satisfy a max_consecutive_days=2 cap; presolve's arithmetic checks
	// (headroom, weekly capacity) see nothing wrong, so the relaxation prober
	// diagnoses it: raising the cap (C4_consecutive) restores feasibility,
	// and so does soft staffing (C2_staffing), whose slack covers the days
	// the cap leaves uncovered.
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day"}
	period := domain.SchedulePeriod{StartDate: domain.NewDate(2026, 3, 2), EndDate: domain.NewDate(2026, 3, 8)}
	staff := domain.Staff{ID: uuid.New(), MaxDaysPerWeek: 7}
	snap := domain.Snapshot{
		Period:     period,
		Staff:      []domain.Staff{staff},
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 1},
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekend, MinCount: 1},
		},
		Config: domain.SolverConfig{MaxConsecutiveDays: 2, TimeLimitSeconds: 5},
	}

	o := orchestrate.New(greedy.New())
	result, err := o.Solve(context.Background(), snap)

	require.NoError(t, err)
	require.Equal(t, domain.StatusInfeasible, result.Status)
	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, domain.TagStaffing, result.Diagnostics[0].ConstraintTag)
	assert.Equal(t, domain.TagConsecutive, result.Diagnostics[1].ConstraintTag)
}

func TestSkipDiagnosticsReturnsEmptyDiagnosticsOnInfeasible(t *testing.T) {
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day"}
	period := domain.SchedulePeriod{StartDate: domain.NewDate(2026, 3, 2), EndDate: domain.NewDate(2026, 3, 2)}
	snap := domain.Snapshot{
		Period:     period,
		Staff:      []domain.Staff{{ID: uuid.New(), MaxDaysPerWeek: 7}},
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 2},
		},
		Config:          domain.SolverConfig{MaxConsecutiveDays: 5, TimeLimitSeconds: 5},
		SkipDiagnostics: true,
	}

	o := orchestrate.New(greedy.New())
	result, err := o.Solve(context.Background(), snap)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInfeasible, result.Status)
	assert.Empty(t, result.Diagnostics)
}

package greedy_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/modelbuild"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/solver/greedy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
)

func TestSolveBasicFeasibleInstance(t *testing.T) {
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
		Config: domain.SolverConfig{MaxConsecutiveDays: 5},
	}

	built := modelbuild.Build(snap)
	backend := greedy.New()

	sol, err := backend.Solve(context.Background(), *built.Model, time.Second)

	require.NoError(t, err)
	assert.Equal(t, milp.Optimal, sol.Status)

	assignedPerDate := map[string]int{}
	for _, av := range built.Assignable {
		if sol.Value(av.Var) > 0.5 {
			assignedPerDate[av.Date.String()]++
		}
	}
	for _, d := range period.Dates() {
		assert.GreaterOrEqual(t, assignedPerDate[d.String()], 2)
	}
}

func TestSolveRespectsNodeLimit(t *testing.T) {
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
		Config: domain.SolverConfig{MaxConsecutiveDays: 5},
	}

	built := modelbuild.Build(snap)
	backend := greedy.Backend{NodeLimit: 1}

	sol, err := backend.Solve(context.Background(), *built.Model, time.Second)

	require.NoError(t, err)
	assert.Equal(t, milp.TimedOut, sol.Status)
}

func TestSolveReportsInfeasibleWhenUnderStaffed(t *testing.T) {
	slot := domain.ShiftSlot{ID: uuid.New(), Name: "Day"}
	period := domain.SchedulePeriod{StartDate: domain.NewDate(2026, 3, 2), EndDate: domain.NewDate(2026, 3, 2)}
	snap := domain.Snapshot{
		Period:     period,
		Staff:      []domain.Staff{{ID: uuid.New(), MaxDaysPerWeek: 7}},
		ShiftSlots: []domain.ShiftSlot{slot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ShiftSlotID: slot.ID, DayType: domain.DayTypeWeekday, MinCount: 2},
		},
	}

	built := modelbuild.Build(snap)
	backend := greedy.New()

	sol, err := backend.Solve(context.Background(), *built.Model, time.Second)

	require.NoError(t, err)
	assert.Equal(t, milp.Infeasible, sol.Status)
}

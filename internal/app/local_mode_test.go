package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/orchestrate"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/shiftsched/pkg/config"
)

func setupLocalModeContainer(t *testing.T) *Container {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		AppEnv:         "test",
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(dir, "shiftsched.db"),
		LocalMode:      true,
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	return container
}

func twoStaffSnapshot() domain.Snapshot {
	periodID := uuid.New()
	morningSlot := domain.ShiftSlot{
		ID:        uuid.New(),
		Name:      "morning",
		StartTime: domain.NewClock(8, 0),
		EndTime:   domain.NewClock(16, 0),
	}
	alice := domain.Staff{ID: uuid.New(), Name: "Alice", Role: "nurse", MaxDaysPerWeek: 5, MinDaysPerWeek: 2}
	bob := domain.Staff{ID: uuid.New(), Name: "Bob", Role: "nurse", MaxDaysPerWeek: 5, MinDaysPerWeek: 2}

	start := domain.NewDate(2026, time.August, 3)
	end := domain.NewDate(2026, time.August, 4)

	return domain.Snapshot{
		Period: domain.SchedulePeriod{
			ID:        periodID,
			StartDate: start,
			EndDate:   end,
			Status:    domain.PeriodDraft,
		},
		Staff:      []domain.Staff{alice, bob},
		ShiftSlots: []domain.ShiftSlot{morningSlot},
		StaffingRequirements: []domain.StaffingRequirement{
			{ID: uuid.New(), ShiftSlotID: morningSlot.ID, DayType: domain.DayTypeWeekday, MinCount: 1},
		},
		Config: domain.SolverConfig{
			MaxConsecutiveDays:    6,
			TimeLimitSeconds:      5,
			MinShiftIntervalHours: 8,
		},
	}
}

func TestLocalModeContainer(t *testing.T) {
	container := setupLocalModeContainer(t)

	assert.NotNil(t, container.SnapshotStore)
	assert.NotNil(t, container.Registry)
	assert.NotNil(t, container.DBConn)
}

func TestLocalModeSnapshotRoundTrip(t *testing.T) {
	container := setupLocalModeContainer(t)
	ctx := context.Background()

	snap := twoStaffSnapshot()

	require.NoError(t, container.SnapshotStore.SavePeriod(ctx, snap.Period))
	require.NoError(t, container.SnapshotStore.SaveSnapshot(ctx, snap))

	loaded, err := container.SnapshotStore.LoadSnapshot(ctx, snap.Period.ID)
	require.NoError(t, err)

	assert.Equal(t, snap.Period.ID, loaded.Period.ID)
	assert.Len(t, loaded.Staff, 2)
	assert.Len(t, loaded.ShiftSlots, 1)
	assert.Len(t, loaded.StaffingRequirements, 1)
}

func TestLocalModeSolveWorkflow(t *testing.T) {
	container := setupLocalModeContainer(t)
	ctx := context.Background()

	snap := twoStaffSnapshot()
	require.NoError(t, container.SnapshotStore.SavePeriod(ctx, snap.Period))
	require.NoError(t, container.SnapshotStore.SaveSnapshot(ctx, snap))

	backend, err := container.Registry.Get(ctx, "shiftsched.solver.greedy")
	require.NoError(t, err)

	orchestrator := orchestrate.New(backend)
	result, err := orchestrator.Solve(ctx, snap)
	require.NoError(t, err)

	require.NoError(t, container.SnapshotStore.SaveResult(ctx, snap.Period.ID, result))

	loaded, ok, err := container.SnapshotStore.LoadResult(ctx, snap.Period.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Status, loaded.Status)
}

func TestLocalModeRegistryListsBuiltinBackends(t *testing.T) {
	container := setupLocalModeContainer(t)

	assert.True(t, container.Registry.Has("shiftsched.solver.highs"))
	assert.True(t, container.Registry.Has("shiftsched.solver.greedy"))
}

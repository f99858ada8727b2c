package persistence_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/persistence"
)

func openTestStore(t *testing.T) *persistence.SQLiteSnapshotStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := persistence.NewSQLiteSnapshotStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func sampleSnapshot() domain.Snapshot {
	periodID := uuid.New()
	staffID := uuid.New()
	slotID := uuid.New()

	period := domain.SchedulePeriod{
		ID:        periodID,
		StartDate: domain.NewDate(2026, 8, 3),
		EndDate:   domain.NewDate(2026, 8, 9),
		Status:    domain.PeriodDraft,
	}

	return domain.Snapshot{
		Period: period,
		Staff: []domain.Staff{
			{ID: staffID, Name: "Jordan Diaz", Role: "nurse", MaxDaysPerWeek: 5, MinDaysPerWeek: 2},
		},
		ShiftSlots: []domain.ShiftSlot{
			{ID: slotID, Name: "day", StartTime: domain.NewClock(7, 0), EndTime: domain.NewClock(15, 0)},
		},
		StaffingRequirements: []domain.StaffingRequirement{
			{ID: uuid.New(), ShiftSlotID: slotID, DayType: domain.DayTypeWeekday, MinCount: 1},
		},
		RoleStaffingRequirements: []domain.RoleStaffingRequirement{
			{ID: uuid.New(), ShiftSlotID: slotID, DayType: domain.DayTypeWeekday, Role: "nurse", MinCount: 1},
		},
		StaffRequests: []domain.StaffRequest{
			{ID: uuid.New(), StaffID: staffID, Date: domain.NewDate(2026, 8, 4), Type: domain.RequestUnavailable},
		},
	}
}

func TestSaveSnapshotThenLoadRoundTrips(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot()

	require.NoError(t, store.SaveSnapshot(ctx, snap))

	loaded, err := store.LoadSnapshot(ctx, snap.Period.ID)
	require.NoError(t, err)

	assert.Equal(t, snap.Period, loaded.Period)
	require.Len(t, loaded.Staff, 1)
	assert.Equal(t, snap.Staff[0], loaded.Staff[0])
	require.Len(t, loaded.ShiftSlots, 1)
	assert.Equal(t, snap.ShiftSlots[0], loaded.ShiftSlots[0])
	require.Len(t, loaded.StaffingRequirements, 1)
	require.Len(t, loaded.RoleStaffingRequirements, 1)
	require.Len(t, loaded.StaffRequests, 1)
	assert.Equal(t, snap.StaffRequests[0].StaffID, loaded.StaffRequests[0].StaffID)
	assert.Nil(t, loaded.StaffRequests[0].ShiftSlotID)
}

func TestSaveSnapshotIsReplaceNotAppend(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot()

	require.NoError(t, store.SaveSnapshot(ctx, snap))
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	loaded, err := store.LoadSnapshot(ctx, snap.Period.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Staff, 1)
}

func TestSaveAndLoadResult(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	periodID := uuid.New()
	require.NoError(t, store.SavePeriod(ctx, domain.SchedulePeriod{
		ID:        periodID,
		StartDate: domain.NewDate(2026, 8, 3),
		EndDate:   domain.NewDate(2026, 8, 9),
		Status:    domain.PeriodDraft,
	}))

	_, found, err := store.LoadResult(ctx, periodID)
	require.NoError(t, err)
	assert.False(t, found)

	result := domain.Result{
		Status:  domain.StatusOptimal,
		Message: "solved",
		Assignments: []domain.Assignment{
			{StaffID: uuid.New(), Date: domain.NewDate(2026, 8, 3), ShiftSlotID: uuid.New()},
		},
	}
	require.NoError(t, store.SaveResult(ctx, periodID, result))

	loaded, found, err := store.LoadResult(ctx, periodID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, result.Status, loaded.Status)
	assert.Equal(t, result.Message, loaded.Message)
	assert.Equal(t, result.Assignments, loaded.Assignments)
}

func TestListPublishedPeriodsFiltersDraft(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	draft := domain.SchedulePeriod{ID: uuid.New(), StartDate: domain.NewDate(2026, 8, 3), EndDate: domain.NewDate(2026, 8, 9), Status: domain.PeriodDraft}
	published := domain.SchedulePeriod{ID: uuid.New(), StartDate: domain.NewDate(2026, 8, 10), EndDate: domain.NewDate(2026, 8, 16), Status: domain.PeriodPublished}
	require.NoError(t, store.SavePeriod(ctx, draft))
	require.NoError(t, store.SavePeriod(ctx, published))

	periods, err := store.ListPublishedPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, published.ID, periods[0].ID)
}

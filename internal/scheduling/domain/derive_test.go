package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIntervalConflictDetectsShortRest(t *testing.T) {
	// night shift ending 23:00, next slot starting 06:00 -> 7h rest
	night := domain.ShiftSlot{EndTime: domain.NewClock(23, 0)}
	morning := domain.ShiftSlot{StartTime: domain.NewClock(6, 0)}

	assert.True(t, domain.IntervalConflict(night, morning, 8))
	assert.False(t, domain.IntervalConflict(night, morning, 7))
}

func TestUnavailableOnBlocksEverySlot(t *testing.T) {
	staffID := uuid.New()
	date := domain.NewDate(2026, 3, 2)
	requests := []domain.StaffRequest{
		{StaffID: staffID, Date: date, Type: domain.RequestUnavailable},
	}

	assert.True(t, domain.UnavailableOn(requests, staffID, date))
	assert.False(t, domain.UnavailableOn(requests, uuid.New(), date))
}

func TestPreferredForAnySlotWhenSlotOmitted(t *testing.T) {
	staffID := uuid.New()
	slotID := uuid.New()
	date := domain.NewDate(2026, 3, 2)
	requests := []domain.StaffRequest{
		{StaffID: staffID, Date: date, Type: domain.RequestPreferred},
	}

	assert.True(t, domain.PreferredFor(requests, staffID, slotID, date))
	assert.True(t, domain.PreferredFor(requests, staffID, uuid.New(), date))
}

func TestStaffingRequirementForFirstMatch(t *testing.T) {
	slotID := uuid.New()
	reqs := []domain.StaffingRequirement{
		{ShiftSlotID: slotID, DayType: domain.DayTypeWeekday, MinCount: 2},
		{ShiftSlotID: slotID, DayType: domain.DayTypeWeekend, MinCount: 1},
	}

	req, ok := domain.StaffingRequirementFor(reqs, slotID, domain.DayTypeWeekend)
	assert.True(t, ok)
	assert.Equal(t, 1, req.MinCount)

	_, ok = domain.StaffingRequirementFor(reqs, uuid.New(), domain.DayTypeWeekday)
	assert.False(t, ok)
}

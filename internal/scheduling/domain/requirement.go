package domain

import "github.com/google/uuid"

// DayType classifies a calendar date for staffing-requirement lookup.
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// StaffingRequirement pins a minimum headcount to a (slot, day type) pair.
type StaffingRequirement struct {
	ID         uuid.UUID
	ShiftSlotID uuid.UUID
	DayType    DayType
	MinCount   int
}

// RoleStaffingRequirement pins a minimum headcount of a given role to a
// (slot, day type) pair.
type RoleStaffingRequirement struct {
	ID          uuid.UUID
	ShiftSlotID uuid.UUID
	DayType     DayType
	Role        string
	MinCount    int
}

// RequestType distinguishes a soft preference from a hard unavailability.
type RequestType string

const (
	RequestPreferred    RequestType = "preferred"
	RequestUnavailable  RequestType = "unavailable"
)

// StaffRequest is a per-staff, date-specific request. ShiftSlotID is nil for
// a preferred request meaning "any slot that day"; an unavailable request
// always blocks every slot on the date regardless of ShiftSlotID.
type StaffRequest struct {
	ID          uuid.UUID
	StaffID     uuid.UUID
	Date        Date
	Type        RequestType
	ShiftSlotID *uuid.UUID
}

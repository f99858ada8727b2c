package domain

import "github.com/google/uuid"

// Assignment is one (staff, date, slot) tuple the solver chose.
type Assignment struct {
	StaffID     uuid.UUID
	Date        Date
	ShiftSlotID uuid.UUID
}

// Status is the outcome kind of a solve call (spec.md §7).
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusTimeout    Status = "timeout"
)

// Result is the full output of one solve call.
type Result struct {
	Status      Status
	Message     string
	Assignments []Assignment
	Diagnostics []DiagnosticItem
}

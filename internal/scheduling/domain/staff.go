// Package domain holds the plain data carriers for the scheduling snapshot:
// staff, shift slots, requirements, requests, and the solver's output
// shapes. None of these types carry behavior beyond field access and the
// small derivations (day type, ISO week, interval conflict) that the model
// builder needs on every entity uniformly; nothing here mutates the caller's
// data or reaches outside the snapshot it was constructed from.
package domain

import "github.com/google/uuid"

// Staff is a roster member available for assignment.
type Staff struct {
	ID               uuid.UUID
	Name             string
	Role             string
	MaxDaysPerWeek   int
	MinDaysPerWeek   int
}

// ShiftSlot is a named, recurring daily work window.
type ShiftSlot struct {
	ID        uuid.UUID
	Name      string
	StartTime Clock // wall-clock minute-of-day
	EndTime   Clock // may be earlier than StartTime: the slot wraps past midnight
}

// Clock is a minute-of-day wall-clock value in [0, 1440).
type Clock int

// NewClock builds a Clock from an hour/minute pair.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// Minutes returns the minute-of-day value.
func (c Clock) Minutes() int { return int(c) }

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

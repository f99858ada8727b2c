package domain

import "github.com/google/uuid"

// PeriodStatus is the publication state of a SchedulePeriod.
type PeriodStatus string

const (
	PeriodDraft     PeriodStatus = "draft"
	PeriodPublished PeriodStatus = "published"
)

// SchedulePeriod is the planning horizon a solve runs over.
type SchedulePeriod struct {
	ID        uuid.UUID
	StartDate Date
	EndDate   Date
	Status    PeriodStatus
}

// Dates returns every calendar date in the period, inclusive.
func (p SchedulePeriod) Dates() []Date {
	return DatesBetween(p.StartDate, p.EndDate)
}

// Contains reports whether d falls within the period.
func (p SchedulePeriod) Contains(d Date) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

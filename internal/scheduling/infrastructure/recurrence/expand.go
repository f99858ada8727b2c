// Package recurrence expands recurring StaffRequest input rows ("unavailable
// every Saturday for the next 8 weeks") into the concrete per-date
// StaffRequest values a Snapshot actually carries, using
// github.com/teambition/rrule-go. This runs strictly before a Snapshot
// reaches the solving core (SPEC_FULL.md §3.1): the core itself never sees
// a recurrence rule, only the expanded dates.
package recurrence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// Rule describes one recurring request before expansion.
type Rule struct {
	StaffID     uuid.UUID
	Type        domain.RequestType
	ShiftSlotID *uuid.UUID

	// Freq is the rrule frequency (rrule.DAILY, rrule.WEEKLY, ...).
	Freq rrule.Frequency
	// Weekdays restricts occurrences to the given days (BYDAY); nil means
	// every day matching Freq.
	Weekdays []rrule.Weekday
	// DTStart is the first date the rule may occur on.
	DTStart domain.Date
	// Count bounds the number of occurrences; 0 means unbounded (Until or
	// the expansion window decides when it stops).
	Count int
	// Until bounds the last date the rule may occur on; zero-value Date
	// means unbounded (Count or the expansion window decides).
	Until domain.Date
}

func (r Rule) toRRule() (*rrule.RRule, error) {
	opts := rrule.ROption{
		Freq:      r.Freq,
		Dtstart:   time.Date(r.DTStart.Year, r.DTStart.Month, r.DTStart.Day, 0, 0, 0, 0, time.UTC),
		Byweekday: r.Weekdays,
	}
	if r.Count > 0 {
		opts.Count = r.Count
	}
	if (r.Until != domain.Date{}) {
		opts.Until = time.Date(r.Until.Year, r.Until.Month, r.Until.Day, 0, 0, 0, 0, time.UTC)
	}
	rule, err := rrule.NewRRule(opts)
	if err != nil {
		return nil, fmt.Errorf("build rrule: %w", err)
	}
	return rule, nil
}

// Expand produces the concrete StaffRequest rows each Rule occurs on within
// [periodStart, periodEnd] (inclusive on both ends). Occurrences outside the
// period are dropped: a rule may span many periods, but only the dates
// relevant to the period being solved are ever materialized into a
// Snapshot.
func Expand(rules []Rule, periodStart, periodEnd domain.Date) ([]domain.StaffRequest, error) {
	windowStart := time.Date(periodStart.Year, periodStart.Month, periodStart.Day, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(periodEnd.Year, periodEnd.Month, periodEnd.Day, 0, 0, 0, 0, time.UTC)

	var out []domain.StaffRequest
	for _, rule := range rules {
		rr, err := rule.toRRule()
		if err != nil {
			return nil, fmt.Errorf("rule for staff %s: %w", rule.StaffID, err)
		}

		for _, occurrence := range rr.Between(windowStart, windowEnd, true) {
			out = append(out, domain.StaffRequest{
				ID:          uuid.New(),
				StaffID:     rule.StaffID,
				Date:        domain.DateFromTime(occurrence),
				Type:        rule.Type,
				ShiftSlotID: rule.ShiftSlotID,
			})
		}
	}
	return out, nil
}

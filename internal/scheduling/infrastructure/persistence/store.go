// Package persistence holds the "external collaborator" of spec.md §1: it
// assembles a Snapshot from stored roster/requirement/request rows and
// persists the Result a solve call produces, but it is never part of the
// core itself and the core never imports it. Two implementations exist,
// split into a dual postgres/sqlite implementation: a Postgres
// store for shared deployments and a SQLite store for the CLI's local mode.
package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// SnapshotStore assembles Snapshots from stored rows and records solve
// outcomes. It is explicitly outside the solving core (spec.md §1): nothing
// under application/solving ever imports this package.
type SnapshotStore interface {
	// SavePeriod upserts a schedule period and its roster-independent
	// identity (dates, status).
	SavePeriod(ctx context.Context, period domain.SchedulePeriod) error

	// SaveSnapshot replaces every roster/requirement/request row stored
	// against snap.Period.ID with the contents of snap. Used to seed a
	// store from an already-assembled Snapshot (tests, CLI import) rather
	// than building one up row by row.
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error

	// LoadSnapshot assembles the full Snapshot for a period: the period
	// itself plus every staff, shift slot, requirement, and request row
	// presently stored against it.
	LoadSnapshot(ctx context.Context, periodID uuid.UUID) (domain.Snapshot, error)

	// SaveResult records the outcome of a solve call against a period.
	SaveResult(ctx context.Context, periodID uuid.UUID, result domain.Result) error

	// LoadResult returns the most recently saved Result for a period, or
	// false if none has been saved yet.
	LoadResult(ctx context.Context, periodID uuid.UUID) (domain.Result, bool, error)

	// ListPublishedPeriods returns every period currently in the
	// published state.
	ListPublishedPeriods(ctx context.Context) ([]domain.SchedulePeriod, error)
}

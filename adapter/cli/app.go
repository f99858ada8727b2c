package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/orchestrate"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/cache"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/calendarexport"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/messaging"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/solver"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/registry"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
	"github.com/felixgeelhaar/shiftsched/pkg/config"
)

// backendIDs maps the short names config.Config.SolverBackend accepts to
// the registry IDs the builtin package registers them under; anything
// else is looked up in the registry verbatim, so a plugin discovered from
// SolverPluginDir can be selected by its own manifest ID.
var backendIDs = map[string]string{
	"highs":  "shiftsched.solver.highs",
	"greedy": "shiftsched.solver.greedy",
}

// App holds the CLI application's wired dependencies: the collaborators
// needed to build an Orchestrator per solve (the backend registry and
// breaker settings) plus the external-collaborator infrastructure that
// sits outside the core (store, cache, event bus, calendar export).
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Registry *registry.Registry

	SnapshotStore     persistence.SnapshotStore
	ResultCache       *cache.ResultCache
	EventPublisher    *messaging.EventPublisher
	CalendarPublisher *calendarexport.Publisher
}

// NewApp creates a CLI application. SnapshotStore, ResultCache,
// EventPublisher, and CalendarPublisher may be nil: every solve command
// degrades gracefully without them (no persistence, no caching, no
// published events, no calendar push), since the CLI is meant to also work
// against a bare JSON snapshot file with no services running.
func NewApp(cfg *config.Config, logger *slog.Logger, reg *registry.Registry) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
	}
}

// Orchestrator resolves Config.SolverBackend (or the id override, if
// non-empty) against the registry and wraps it in a circuit breaker,
// returning a ready-to-use Orchestrator.
func (a *App) Orchestrator(ctx context.Context, id string) (*orchestrate.Orchestrator, error) {
	if id == "" {
		id = a.Config.SolverBackend
	}
	if resolved, ok := backendIDs[id]; ok {
		id = resolved
	}

	backend, err := a.Registry.Get(ctx, id)
	if err != nil {
		if sdk.IsBackendNotFound(err) {
			return nil, fmt.Errorf("solver backend %q is not registered (check --backend or SOLVER_BACKEND): %w", id, err)
		}
		return nil, fmt.Errorf("resolve solver backend %q: %w", id, err)
	}

	breaker := solver.NewBreakerBackend(backend, solver.BreakerSettings{
		MaxRequests:      uint32(a.Config.BreakerMaxRequests),
		Interval:         a.Config.BreakerInterval,
		Timeout:          a.Config.BreakerTimeout,
		FailureThreshold: uint32(a.Config.BreakerFailureThreshold),
	}, a.Logger)

	return orchestrate.New(breaker), nil
}

// app is the global CLI application instance, wired by cmd/shiftsched's
// main and read by every command.
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

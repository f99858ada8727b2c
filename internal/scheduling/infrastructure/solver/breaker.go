// Package solver holds the in-process and breaker-wrapped milp.Backend
// implementations this repository ships (see the greedy and highs
// subpackages), plus the circuit breaker decorator in this file.
//
// Every backend call runs through a gobreaker.CircuitBreaker; narrowed to
// one backend per Orchestrator instance (spec.md §6 rules out a shared
// registry), so BreakerBackend wraps a single milp.Backend rather than
// keeping a map of breakers.
package solver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
)

// ErrCircuitOpen is returned by BreakerBackend.Solve when the breaker has
// tripped and is refusing calls to the wrapped backend.
var ErrCircuitOpen = errors.New("solver backend circuit is open")

// BreakerSettings configures a BreakerBackend. The zero value is not
// usable; use DefaultBreakerSettings for sensible defaults.
type BreakerSettings struct {
	// MaxRequests is the number of calls let through while half-open.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state used to reset
	// failure counts; zero means counts never reset while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before trying half-open.
	Timeout time.Duration
	// FailureThreshold trips the breaker after this many consecutive
	// backend failures.
	FailureThreshold uint32
}

// DefaultBreakerSettings returns conservative defaults tuned for a solver
// backend that is called once per schedule period rather than per request.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// BreakerBackend wraps a milp.Backend so that a solver that has started
// failing repeatedly (a crashed plugin process, an unreachable gRPC
// backend) stops being retried on every subsequent solve until Timeout
// has passed, instead of blocking each caller on a doomed call.
type BreakerBackend struct {
	backend milp.Backend
	cb      *gobreaker.CircuitBreaker[milp.Solution]
	logger  *slog.Logger
}

// NewBreakerBackend wraps backend with a circuit breaker configured by
// settings. A nil logger falls back to slog.Default().
func NewBreakerBackend(backend milp.Backend, settings BreakerSettings, logger *slog.Logger) *BreakerBackend {
	if logger == nil {
		logger = slog.Default()
	}

	name := backend.Name()
	cbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(breakerName string, from, to gobreaker.State) {
			logger.Info("solver backend circuit breaker state changed",
				"backend", breakerName, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerBackend{
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker[milp.Solution](cbSettings),
		logger:  logger,
	}
}

// Solve delegates to the wrapped backend through the circuit breaker. When
// the breaker is open it returns ErrCircuitOpen immediately, without
// calling the backend.
func (b *BreakerBackend) Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error) {
	sol, err := b.cb.Execute(func() (milp.Solution, error) {
		return b.backend.Solve(ctx, model, timeLimit)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return milp.Solution{}, ErrCircuitOpen
	}
	return sol, err
}

// SupportsIIS delegates to the wrapped backend; IIS support is a static
// capability, not subject to circuit breaking.
func (b *BreakerBackend) SupportsIIS() bool {
	return b.backend.SupportsIIS()
}

// Name returns the wrapped backend's name unchanged, so log lines and
// diagnostics messages referencing it stay meaningful.
func (b *BreakerBackend) Name() string {
	return b.backend.Name()
}

// State reports the breaker's current state, exposed for health checks
// and CLI status output.
func (b *BreakerBackend) State() gobreaker.State {
	return b.cb.State()
}

var _ milp.Backend = (*BreakerBackend)(nil)

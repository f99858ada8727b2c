package milp

import (
	"context"
	"time"
)

// SolveStatus is the raw outcome a backend reports for one Solve call,
// before the solver driver classifies it into the three core outcomes of
// spec.md §4.3.
type SolveStatus int

const (
	// Optimal means the backend proved the solution optimal.
	Optimal SolveStatus = iota
	// SubOptimal means the time limit was hit but a feasible incumbent
	// exists; spec.md §4.3 treats this the same as Optimal.
	SubOptimal
	// Infeasible means the backend proved no feasible solution exists.
	Infeasible
	// TimedOut means the time limit was hit with no feasible incumbent.
	TimedOut
)

// Solution is a backend's raw answer to one Solve call.
type Solution struct {
	Status SolveStatus
	// Values holds one entry per Model.Vars index; nil/zero-valued for
	// infeasible or no-incumbent-timeout results.
	Values []float64
}

// Value returns the solved value of v, or 0 if out of range.
func (s Solution) Value(v VarRef) float64 {
	if int(v) < 0 || int(v) >= len(s.Values) {
		return 0
	}
	return s.Values[v]
}

// Backend invokes an MILP solver against a Model. Backend selection is
// implementation-defined (spec.md §4.3): the preferred backend exposes an
// IIS facility via SupportsIIS, a fallback with SupportsIIS()==false is
// equally acceptable and routes the orchestrator to the relaxation prober
// instead (spec.md §4.6).
type Backend interface {
	// Solve builds and solves model, bounded by timeLimit. A non-nil error
	// means the backend itself failed to launch (spec.md §7: "a transport
	// failure to the caller, not an infeasible result"), never that the
	// model was infeasible.
	Solve(ctx context.Context, model Model, timeLimit time.Duration) (Solution, error)

	// SupportsIIS reports whether this backend's solver driver should
	// attempt the IIS decoder (spec.md §4.4) on an infeasible result, as
	// opposed to falling through to the relaxation prober (spec.md §4.5).
	SupportsIIS() bool

	// Name identifies the backend for logging/diagnostics messages.
	Name() string
}

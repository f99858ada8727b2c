// Package orchestrate wires presolve, the model builder, the solver
// driver, the IIS decoder, and the relaxation prober into the single
// solve(...) entry point of spec.md §6, implementing the state machine of
// spec.md §4.6: Idle -> Presolved -> Solved | NeedsDiagnosis -> Diagnosed
// -> Done.
package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/driver"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/iis"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/modelbuild"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/presolve"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/relax"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// Orchestrator is the core's single embeddable entry point: no I/O, no
// globals, one Backend per instance (spec.md §6).
type Orchestrator struct {
	Backend milp.Backend
}

// New builds an Orchestrator over backend.
func New(backend milp.Backend) *Orchestrator {
	return &Orchestrator{Backend: backend}
}

// Solve runs snap through the full pipeline. A non-nil error means the
// backend itself failed to launch (spec.md §7); every other outcome,
// including infeasible and timeout, is carried in the returned Result.
func (o *Orchestrator) Solve(ctx context.Context, snap domain.Snapshot) (domain.Result, error) {
	timeLimit := time.Duration(snap.Config.TimeLimitSeconds * float64(time.Second))

	presolved := presolve.Run(snap)

	built := modelbuild.Build(snap)
	outcome, err := driver.Drive(ctx, o.Backend, built, timeLimit)
	if err != nil {
		return domain.Result{}, fmt.Errorf("orchestrate solve: %w", err)
	}

	if outcome.Result.Status != domain.StatusInfeasible {
		return outcome.Result, nil
	}

	result := outcome.Result
	if snap.SkipDiagnostics {
		return result, nil
	}

	if len(presolved) > 0 {
		result.Diagnostics = presolved
		result.Message = "presolve found arithmetic issues that no solve could repair"
		return result, nil
	}

	if o.Backend.SupportsIIS() {
		labels, err := iis.FindMinimalInfeasibleLabels(ctx, o.Backend, *built.Model, timeLimit)
		if err != nil {
			return domain.Result{}, fmt.Errorf("orchestrate iis decode: %w", err)
		}
		if len(labels) > 0 {
			result.Diagnostics = iis.Diagnose(labels, snap)
			result.Message = "infeasible; diagnosed via the irreducible infeasible subsystem"
			return result, nil
		}
	}

	diagnostics, err := relax.Probe(ctx, o.Backend, snap, timeLimit)
	if err != nil {
		return domain.Result{}, fmt.Errorf("orchestrate relaxation probe: %w", err)
	}
	result.Diagnostics = diagnostics
	result.Message = "infeasible; diagnosed via relaxation probing"
	return result, nil
}

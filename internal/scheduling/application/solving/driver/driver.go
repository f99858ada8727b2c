// Package driver invokes a milp.Backend against a built model, classifies
// the raw SolveStatus into the three core outcomes of spec.md §4.3, and
// extracts Assignments for the optimal case. It never decides what to do
// about an infeasible result; that is the orchestrator's job, wiring in
// the iis and relax packages.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/modelbuild"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// Outcome is the driver's classification of one Solve call, alongside the
// backend's raw status and solution.
type Outcome struct {
	Result     domain.Result
	RawStatus  milp.SolveStatus
	RawSolution milp.Solution
}

// assignmentThreshold is the cutoff spec.md §4.3 names for reading a binary
// variable's solved value back as "assigned": x > 0.5.
const assignmentThreshold = 0.5

// Drive solves built.Model against backend within timeLimit and classifies
// the result. A non-nil error means the backend itself failed to launch
// (spec.md §7), never that the model was infeasible.
func Drive(ctx context.Context, backend milp.Backend, built modelbuild.Built, timeLimit time.Duration) (Outcome, error) {
	sol, err := backend.Solve(ctx, *built.Model, timeLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("solve via backend %q: %w", backend.Name(), err)
	}

	switch sol.Status {
	case milp.Optimal, milp.SubOptimal:
		assignments := extractAssignments(sol, built)
		return Outcome{
			Result: domain.Result{
				Status:      domain.StatusOptimal,
				Message:     fmt.Sprintf("solved with %d assignments", len(assignments)),
				Assignments: assignments,
			},
			RawStatus:   sol.Status,
			RawSolution: sol,
		}, nil
	case milp.TimedOut:
		return Outcome{
			Result: domain.Result{
				Status:  domain.StatusTimeout,
				Message: "solver hit its time limit before finding a feasible solution",
				Diagnostics: []domain.DiagnosticItem{{
					ConstraintTag: domain.TagTimeout,
					Severity:      domain.SeverityWarning,
					Message:       "no feasible solution was found within the configured time limit",
				}},
			},
			RawStatus:   sol.Status,
			RawSolution: sol,
		}, nil
	default: // milp.Infeasible
		return Outcome{
			Result: domain.Result{
				Status:  domain.StatusInfeasible,
				Message: "the backend proved this instance infeasible",
			},
			RawStatus:   sol.Status,
			RawSolution: sol,
		}, nil
	}
}

func extractAssignments(sol milp.Solution, built modelbuild.Built) []domain.Assignment {
	assignments := make([]domain.Assignment, 0, len(built.Assignable))
	for _, av := range built.Assignable {
		if sol.Value(av.Var) > assignmentThreshold {
			assignments = append(assignments, domain.Assignment{
				StaffID:     av.StaffID,
				Date:        av.Date,
				ShiftSlotID: av.ShiftSlotID,
			})
		}
	}
	return assignments
}

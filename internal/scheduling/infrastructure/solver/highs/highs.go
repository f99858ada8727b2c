// Package highs is the "preferred backend" of spec.md §4.3: it builds and
// solves the MILP via github.com/nextmv-io/sdk/mip's HiGHS solver,
// grounded on the community shift-scheduling example's use of
// mip.NewModel, m.NewBool/NewFloat, m.NewConstraint, constraint.NewTerm,
// and mip.NewSolver(mip.Highs, m).Solve(options). It reports
// SupportsIIS()==true: IIS extraction itself lives in the iis package as a
// backend-agnostic deletion filter built on repeated Solve calls, not on
// any HiGHS-native row-state API.
package highs

import (
	"context"
	"time"

	nextmvmip "github.com/nextmv-io/sdk/mip"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
)

// Backend wraps one-shot HiGHS solves; it holds no state between calls.
type Backend struct{}

// New returns a ready-to-use Backend.
func New() Backend { return Backend{} }

// Name implements milp.Backend.
func (Backend) Name() string { return "highs" }

// SupportsIIS implements milp.Backend.
func (Backend) SupportsIIS() bool { return true }

// Solve implements milp.Backend by translating model into a fresh
// nextmv-io/sdk/mip model and invoking HiGHS.
func (Backend) Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error) {
	m := nextmvmip.NewModel()
	m.Objective().SetMinimize()

	vars := make([]nextmvmip.Variable, len(model.Vars))
	for i, v := range model.Vars {
		switch v.Kind {
		case milp.Binary:
			vars[i] = m.NewBool()
		case milp.Continuous:
			vars[i] = m.NewFloat(v.Lower, v.Upper)
		}
	}
	for _, t := range model.Objective {
		m.Objective().NewTerm(t.Coefficient, vars[t.Var])
	}
	for _, c := range model.Constraints {
		constraint := m.NewConstraint(toNextmvSense(c.Sense), c.RHS)
		for _, t := range c.Terms {
			constraint.NewTerm(t.Coefficient, vars[t.Var])
		}
	}

	solver, err := nextmvmip.NewSolver(nextmvmip.Highs, m)
	if err != nil {
		return milp.Solution{}, err
	}

	start := time.Now()
	solution, err := solver.Solve(nextmvmip.SolveOptions{Limits: nextmvmip.Limits{Duration: timeLimit}})
	if err != nil {
		return milp.Solution{}, err
	}
	elapsed := time.Since(start)

	switch {
	case solution.IsOptimal():
		return milp.Solution{Status: milp.Optimal, Values: extract(solution, vars)}, nil
	case solution.IsSubOptimal():
		return milp.Solution{Status: milp.SubOptimal, Values: extract(solution, vars)}, nil
	case ctx.Err() != nil || (timeLimit > 0 && elapsed >= timeLimit):
		return milp.Solution{Status: milp.TimedOut}, nil
	default:
		return milp.Solution{Status: milp.Infeasible}, nil
	}
}

func extract(solution nextmvmip.Solution, vars []nextmvmip.Variable) []float64 {
	values := make([]float64, len(vars))
	for i, v := range vars {
		values[i] = solution.Value(v)
	}
	return values
}

func toNextmvSense(s milp.Sense) nextmvmip.Sense {
	switch s {
	case milp.GreaterThanOrEqual:
		return nextmvmip.GreaterThanOrEqual
	case milp.Equal:
		return nextmvmip.Equal
	default:
		return nextmvmip.LessThanOrEqual
	}
}

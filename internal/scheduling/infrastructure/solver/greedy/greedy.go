// Package greedy implements the "fallback backend with no IIS" of spec.md
// §4.3(b): a small, dependency-free exact backend used by tests and as a
// default when no external solver is configured. It performs a
// branch-and-bound search over the binary decision variables (the only
// ones that can make an instance infeasible in this repository's model
// shape, see modelbuild) with bound propagation for pruning, then resolves
// each continuous auxiliary in closed form against the chosen binary
// assignment. It never reports SupportsIIS, which routes the orchestrator
// straight to the relaxation prober.
package greedy

import (
	"context"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
)

// Backend is the greedy/exhaustive fallback solver.
type Backend struct {
	// NodeLimit caps the number of search-tree nodes dfs visits before
	// giving up and returning the best solution found so far, in addition
	// to the per-call timeLimit. Zero means unlimited.
	NodeLimit int
}

// New returns a ready-to-use Backend.
func New() Backend { return Backend{} }

// Name implements milp.Backend.
func (Backend) Name() string { return "greedy" }

// SupportsIIS implements milp.Backend: this backend has no IIS facility.
func (Backend) SupportsIIS() bool { return false }

type termIndex struct {
	constraint int
	coeff      float64
}

type constraintState struct {
	con             milp.Constraint
	assignedSum     float64
	remainingPosSum float64
	remainingNegSum float64
	hasContinuous   bool
}

// Solve implements milp.Backend.
func (b Backend) Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error) {
	deadline := time.Now().Add(timeLimit)

	binaryVars := make([]int, 0, len(model.Vars))
	for i, v := range model.Vars {
		if v.Kind == milp.Binary {
			binaryVars = append(binaryVars, i)
		}
	}

	states := make([]constraintState, len(model.Constraints))
	varTerms := make(map[int][]termIndex)
	for ci, c := range model.Constraints {
		st := constraintState{con: c}
		for _, t := range c.Terms {
			if v := model.Vars[t.Var]; v.Kind == milp.Continuous {
				st.hasContinuous = true
				// continuous terms are never branched on, so their whole
				// bounded range stays available to every feasibility check
				lo, hi := t.Coefficient*v.Lower, t.Coefficient*v.Upper
				if lo > hi {
					lo, hi = hi, lo
				}
				st.remainingNegSum += lo
				st.remainingPosSum += hi
				continue
			}
			if t.Coefficient > 0 {
				st.remainingPosSum += t.Coefficient
			} else if t.Coefficient < 0 {
				st.remainingNegSum += t.Coefficient
			}
		}
		states[ci] = st
		for _, t := range c.Terms {
			if model.Vars[t.Var].Kind == milp.Continuous {
				continue
			}
			varTerms[int(t.Var)] = append(varTerms[int(t.Var)], termIndex{constraint: ci, coeff: t.Coefficient})
		}
	}

	objCoeff := make(map[int]float64)
	var remainingObjPos, remainingObjNeg float64
	for _, term := range model.Objective {
		if model.Vars[term.Var].Kind != milp.Binary {
			continue
		}
		objCoeff[int(term.Var)] += term.Coefficient
	}
	for _, c := range objCoeff {
		if c > 0 {
			remainingObjPos += c
		} else if c < 0 {
			remainingObjNeg += c
		}
	}

	assignment := make([]float64, len(model.Vars))
	var best []float64
	bestObj := 0.0
	haveBest := false
	timedOut := false

	var assignedObj float64
	nodesVisited := 0

	var dfs func(depth int) bool
	dfs = func(depth int) bool {
		nodesVisited++
		if b.NodeLimit > 0 && nodesVisited > b.NodeLimit {
			timedOut = true
			return true
		}
		if time.Now().After(deadline) {
			timedOut = true
			return true
		}
		if err := ctx.Err(); err != nil {
			timedOut = true
			return true
		}
		if depth == len(binaryVars) {
			if !haveBest || assignedObj < bestObj {
				haveBest = true
				bestObj = assignedObj
				best = append([]float64(nil), assignment...)
			}
			return false
		}
		// objective bound: best case for remaining variables is taking the
		// sign that lowers the objective for each.
		bestCaseRemaining := remainingObjNeg // all remaining positive-coeff vars at 0, negative-coeff at 1 already counted in remainingObjNeg
		if haveBest && assignedObj+bestCaseRemaining >= bestObj {
			return false
		}

		v := binaryVars[depth]
		for _, val := range [2]float64{1, 0} {
			if !tryAssign(states, varTerms, v, val) {
				undoAssign(states, varTerms, v, val)
				continue
			}
			assignment[v] = val
			assignedObj += objCoeff[v] * val
			if c, ok := objCoeff[v]; ok {
				if c > 0 {
					remainingObjPos -= c
				} else if c < 0 {
					remainingObjNeg -= c
				}
			}

			stop := dfs(depth + 1)

			assignedObj -= objCoeff[v] * val
			if c, ok := objCoeff[v]; ok {
				if c > 0 {
					remainingObjPos += c
				} else if c < 0 {
					remainingObjNeg += c
				}
			}
			undoAssign(states, varTerms, v, val)

			if stop {
				return true
			}
		}
		return false
	}
	dfs(0)

	if !haveBest {
		if timedOut {
			return milp.Solution{Status: milp.TimedOut}, nil
		}
		return milp.Solution{Status: milp.Infeasible}, nil
	}

	values := resolveContinuous(model, best)
	status := milp.Optimal
	if timedOut {
		status = milp.SubOptimal
	}
	return milp.Solution{Status: status, Values: values}, nil
}

// tryAssign applies v=val to every constraint referencing v and reports
// whether every affected constraint remains satisfiable.
func tryAssign(states []constraintState, varTerms map[int][]termIndex, v int, val float64) bool {
	for _, ti := range varTerms[v] {
		st := &states[ti.constraint]
		st.assignedSum += ti.coeff * val
		if ti.coeff > 0 {
			st.remainingPosSum -= ti.coeff
		} else if ti.coeff < 0 {
			st.remainingNegSum -= ti.coeff
		}
	}
	for _, ti := range varTerms[v] {
		st := &states[ti.constraint]
		minPossible := st.assignedSum + st.remainingNegSum
		maxPossible := st.assignedSum + st.remainingPosSum
		switch st.con.Sense {
		case milp.LessThanOrEqual:
			if minPossible > st.con.RHS {
				return false
			}
		case milp.GreaterThanOrEqual:
			if maxPossible < st.con.RHS {
				return false
			}
		case milp.Equal:
			if minPossible > st.con.RHS || maxPossible < st.con.RHS {
				return false
			}
		}
	}
	return true
}

func undoAssign(states []constraintState, varTerms map[int][]termIndex, v int, val float64) {
	for _, ti := range varTerms[v] {
		st := &states[ti.constraint]
		st.assignedSum -= ti.coeff * val
		if ti.coeff > 0 {
			st.remainingPosSum += ti.coeff
		} else if ti.coeff < 0 {
			st.remainingNegSum += ti.coeff
		}
	}
}

// resolveContinuous computes each continuous variable's value against the
// chosen binary assignment: the tightest bound implied by every constraint
// referencing it alone, resolved toward whichever end minimizes the
// objective.
func resolveContinuous(model milp.Model, binaryValues []float64) []float64 {
	values := append([]float64(nil), binaryValues...)

	objCoeff := make(map[int]float64)
	for _, t := range model.Objective {
		objCoeff[int(t.Var)] += t.Coefficient
	}

	for vi, v := range model.Vars {
		if v.Kind != milp.Continuous {
			continue
		}
		lower, upper := v.Lower, v.Upper

		for _, c := range model.Constraints {
			var contTerm *milp.Term
			fixedSum := 0.0
			multipleContinuous := false
			for i := range c.Terms {
				t := &c.Terms[i]
				if model.Vars[t.Var].Kind == milp.Continuous {
					if int(t.Var) == vi {
						if contTerm != nil {
							multipleContinuous = true
						}
						contTerm = t
					} else {
						multipleContinuous = true
					}
					continue
				}
				fixedSum += t.Coefficient * values[t.Var]
			}
			if contTerm == nil || multipleContinuous || contTerm.Coefficient == 0 {
				continue
			}
			bound := (c.RHS - fixedSum) / contTerm.Coefficient
			flip := contTerm.Coefficient < 0
			switch c.Sense {
			case milp.LessThanOrEqual:
				if flip {
					if bound > lower {
						lower = bound
					}
				} else if bound < upper {
					upper = bound
				}
			case milp.GreaterThanOrEqual:
				if flip {
					if bound < upper {
						upper = bound
					}
				} else if bound > lower {
					lower = bound
				}
			case milp.Equal:
				lower, upper = bound, bound
			}
		}

		if lower > upper {
			lower, upper = v.Lower, v.Upper // constraints over-determined; fall back to declared bounds
		}
		if objCoeff[vi] >= 0 {
			values[vi] = lower
		} else {
			values[vi] = upper
		}
	}
	return values
}

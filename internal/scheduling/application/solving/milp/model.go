// Package milp is the contract between the model builder, the solver
// driver, and every solver backend (in-process or plugin): a minimal
// mixed-integer-programming model representation with labeled constraints,
// grounded on the github.com/nextmv-io/sdk/mip shape (Model, NewConstraint,
// NewTerm, Objective) used by the community shift-scheduling example this
// repository's solver backends wrap.
//
// Labels are the sole bridge between a backend's row indices and the
// diagnostic taxonomy (spec.md §4.4, design note in spec.md §9): they are
// emitted unconditionally for every hard constraint, never only on
// infeasible runs, because the IIS decoder needs them regardless of how the
// backend failed.
package milp

// VarKind distinguishes the two variable shapes the model builder emits
// (spec.md §4.2).
type VarKind int

const (
	// Binary is a 0/1 decision variable, e.g. x[s,d,t].
	Binary VarKind = iota
	// Continuous is a bounded real auxiliary, e.g. a fairness bracket or
	// soft-staffing slack.
	Continuous
)

// VarRef is an opaque handle to a variable in a Model. It is a plain index,
// not a pointer, so Models are cheap to copy across relaxation-prober
// re-solves.
type VarRef int

// Var is one decision variable.
type Var struct {
	Kind VarKind
	// Lower/Upper bound Continuous variables; ignored for Binary.
	Lower, Upper float64
	// Label names the variable for debugging; not load-bearing for the
	// solver, unlike constraint labels.
	Label string
}

// Sense is the relational operator of a linear constraint.
type Sense int

const (
	LessThanOrEqual Sense = iota
	GreaterThanOrEqual
	Equal
)

// Term is one coefficient*variable addend of a constraint or the objective.
type Term struct {
	Coefficient float64
	Var         VarRef
}

// Constraint is one labeled linear row (spec.md §4.2, §6). Label follows
// the grammar in spec.md §6, e.g. "staffing_20260302_<slotID>".
type Constraint struct {
	Label string
	Sense Sense
	RHS   float64
	Terms []Term
}

// Model is a full MILP instance: variables, an objective to minimize, and
// labeled hard constraints.
type Model struct {
	Vars        []Var
	Objective   []Term
	Constraints []Constraint
}

// NewVar appends a variable and returns its reference.
func (m *Model) NewVar(v Var) VarRef {
	m.Vars = append(m.Vars, v)
	return VarRef(len(m.Vars) - 1)
}

// NewBinary appends a binary decision variable.
func (m *Model) NewBinary(label string) VarRef {
	return m.NewVar(Var{Kind: Binary, Label: label})
}

// NewContinuous appends a bounded continuous auxiliary variable.
func (m *Model) NewContinuous(label string, lower, upper float64) VarRef {
	return m.NewVar(Var{Kind: Continuous, Lower: lower, Upper: upper, Label: label})
}

// AddObjectiveTerm adds coefficient*v to the (minimized) objective.
func (m *Model) AddObjectiveTerm(coefficient float64, v VarRef) {
	if coefficient == 0 {
		return
	}
	m.Objective = append(m.Objective, Term{Coefficient: coefficient, Var: v})
}

// AddConstraint appends a labeled constraint and returns its index, so
// callers can keep building it up with AppendTerm.
func (m *Model) AddConstraint(label string, sense Sense, rhs float64) int {
	m.Constraints = append(m.Constraints, Constraint{Label: label, Sense: sense, RHS: rhs})
	return len(m.Constraints) - 1
}

// AppendTerm adds coefficient*v to the constraint at index i.
func (m *Model) AppendTerm(i int, coefficient float64, v VarRef) {
	m.Constraints[i].Terms = append(m.Constraints[i].Terms, Term{Coefficient: coefficient, Var: v})
}

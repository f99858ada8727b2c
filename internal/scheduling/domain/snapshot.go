package domain

import "github.com/google/uuid"

// Snapshot is the full, immutable input bundle to one solve call (spec.md
// §1, §6). Everything the core reasons about is reachable from here; the
// core never mutates a Snapshot or any of its slices, and never reaches
// outside it for more data.
type Snapshot struct {
	Period              SchedulePeriod
	Staff               []Staff
	ShiftSlots          []ShiftSlot
	StaffingRequirements []StaffingRequirement
	RoleStaffingRequirements []RoleStaffingRequirement
	StaffRequests       []StaffRequest
	Config              SolverConfig

	// PrefixAssignments carries, per staff, the dates immediately before
	// Period.StartDate on which that staff was already assigned in a prior
	// (already-solved) period. It resolves the "cross-period continuity"
	// open question in spec.md §9 per option (a): the consecutive-days
	// constraint's sliding window includes these dates when evaluating
	// windows that start before the period. A nil or empty map means no
	// prior assignments are known, which is the same as not having the
	// extension at all.
	PrefixAssignments map[uuid.UUID][]Date

	// SkipDiagnostics is the recursion guard of spec.md §4.6/§9: when true,
	// an infeasible solve returns immediately with no presolve/IIS/
	// relaxation pass. The relaxation prober sets this on every snapshot it
	// constructs so its own nested solves cannot recurse into diagnosis.
	SkipDiagnostics bool
}

// staffIndex returns the staff member's index by ID, or -1 if absent.
func (s Snapshot) staffIndex(id uuid.UUID) int {
	for i, st := range s.Staff {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// SlotByID returns the shift slot by ID, or false if absent.
func (s Snapshot) SlotByID(id uuid.UUID) (ShiftSlot, bool) {
	for _, t := range s.ShiftSlots {
		if t.ID == id {
			return t, true
		}
	}
	return ShiftSlot{}, false
}

// StaffByID returns the staff member by ID, or false if absent.
func (s Snapshot) StaffByID(id uuid.UUID) (Staff, bool) {
	if i := s.staffIndex(id); i >= 0 {
		return s.Staff[i], true
	}
	return Staff{}, false
}

// Package sdk provides the core interfaces and types for shiftsched's solver
// backend plugin system. A plugin supplies one alternative implementation of
// the milp.Backend contract (spec.md §4.3): an out-of-process MILP solver,
// a different heuristic, or a vendor-specific engine, loaded the same way
// the in-process highs/greedy backends are registered (solverplugin/builtin).
//
// BackendPlugin folds lifecycle management and the solving operation into
// one interface by embedding milp.Backend directly, since there is only one
// kind of plugin this SDK supports.
package sdk

import (
	"context"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
)

// BackendKind identifies the algorithmic family of a solver backend plugin.
type BackendKind string

const (
	// KindMILP is a backend that solves the model as a mixed-integer
	// program (e.g. the highs backend).
	KindMILP BackendKind = "milp"
	// KindHeuristic is a backend that searches for a feasible/optimal
	// assignment without a general-purpose MILP solver (e.g. greedy).
	KindHeuristic BackendKind = "heuristic"
)

// String returns the string representation of the backend kind.
func (k BackendKind) String() string {
	return string(k)
}

// IsValid checks if the backend kind is valid.
func (k BackendKind) IsValid() bool {
	switch k {
	case KindMILP, KindHeuristic:
		return true
	default:
		return false
	}
}

// Plugin is the lifecycle interface every solver backend plugin must
// implement, independent of the actual solve operation.
type Plugin interface {
	// Metadata returns plugin identification and capabilities.
	Metadata() Metadata

	// Kind returns the backend's algorithmic family.
	Kind() BackendKind

	// ConfigSchema returns the JSON Schema for configuration.
	ConfigSchema() ConfigSchema

	// Initialize sets up the plugin with the provided configuration. Called
	// once when the plugin is loaded.
	Initialize(ctx context.Context, config Config) error

	// HealthCheck returns the current health status of the plugin.
	HealthCheck(ctx context.Context) HealthStatus

	// Shutdown gracefully stops the plugin and releases resources.
	Shutdown(ctx context.Context) error
}

// BackendPlugin is the full interface the registry and loader deal in: a
// Plugin that also satisfies milp.Backend, so it can be handed directly to
// the solver driver (solving/driver) once loaded.
type BackendPlugin interface {
	Plugin
	milp.Backend
}

// Factory creates backend plugin instances. Used by the registry to defer
// plugin instantiation until first use.
type Factory func() (BackendPlugin, error)

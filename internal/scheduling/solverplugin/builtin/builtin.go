// Package builtin provides the solver backend plugins that ship in-process
// with shiftsched: the two backends spec.md §4.3 calls for, highs (MILP,
// IIS-capable) and greedy (heuristic fallback, no IIS).
package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/solver/greedy"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/solver/highs"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/registry"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
)

// HighsBackendPlugin adapts infrastructure/solver/highs.Backend to the
// sdk.BackendPlugin lifecycle interface.
type HighsBackendPlugin struct {
	backend highs.Backend

	tag          string
	verbose      bool
	maxTimeLimit time.Duration
}

// NewHighsBackendPlugin returns a ready-to-register HiGHS plugin.
func NewHighsBackendPlugin() *HighsBackendPlugin {
	return &HighsBackendPlugin{backend: highs.New()}
}

func (p *HighsBackendPlugin) Metadata() sdk.Metadata {
	return sdk.Metadata{
		ID:            "shiftsched.solver.highs",
		Name:          "HiGHS MILP Solver",
		Version:       "1.0.0",
		Author:        "shiftsched",
		Description:   "Built-in MILP backend using nextmv-io/sdk/mip's HiGHS solver",
		License:       "MIT",
		Tags:          []string{"solver", "builtin", "milp"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"solve", "iis_extraction"},
	}
}

func (p *HighsBackendPlugin) Kind() sdk.BackendKind { return sdk.KindMILP }

func (p *HighsBackendPlugin) ConfigSchema() sdk.ConfigSchema {
	schema := sdk.NewConfigSchema("HiGHS Solver", "Configuration for the built-in HiGHS MILP backend")
	schema.AddProperty("tag", sdk.PropertySchema{
		Type:        "string",
		Title:       "Tag",
		Description: "Operator-assigned label surfaced in HealthCheck details, useful when more than one HiGHS configuration is registered",
		MaxLength:   sdk.IntPtr(128),
	})
	schema.AddProperty("verbose", sdk.PropertySchema{
		Type:        "boolean",
		Title:       "Verbose health reporting",
		Description: "Include the configured tag and time limit cap in HealthCheck details",
	})
	schema.AddProperty("max_time_limit", sdk.PropertySchema{
		Type:        "string",
		Title:       "Maximum time limit",
		Description: "Duration string (time.ParseDuration format) capping every Solve call's time limit regardless of what the caller requests",
	})
	return schema
}

func (p *HighsBackendPlugin) Initialize(ctx context.Context, config sdk.Config) error {
	if err := p.ConfigSchema().Validate(config.Raw); err != nil {
		return sdk.NewPluginError(p.Metadata().ID, "initialize", fmt.Errorf("%w: %v", sdk.ErrInvalidConfig, err))
	}
	p.tag = config.GetString("tag")
	p.verbose = config.GetBool("verbose")
	if config.Has("max_time_limit") {
		p.maxTimeLimit = config.GetDuration("max_time_limit")
	}
	return nil
}

func (p *HighsBackendPlugin) HealthCheck(ctx context.Context) sdk.HealthStatus {
	status := sdk.NewHealthStatus(true, "highs backend is healthy")
	if !p.verbose {
		return status
	}
	details := map[string]any{
		"iis_extraction": p.Metadata().HasCapability("iis_extraction"),
	}
	if p.tag != "" {
		details["tag"] = p.tag
	}
	if p.maxTimeLimit > 0 {
		details["max_time_limit"] = p.maxTimeLimit.String()
	}
	return status.WithDetails(details)
}

func (p *HighsBackendPlugin) Shutdown(ctx context.Context) error { return nil }

func (p *HighsBackendPlugin) Name() string { return p.backend.Name() }

func (p *HighsBackendPlugin) SupportsIIS() bool { return p.backend.SupportsIIS() }

func (p *HighsBackendPlugin) Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error) {
	if p.maxTimeLimit > 0 && timeLimit > p.maxTimeLimit {
		timeLimit = p.maxTimeLimit
	}
	return p.backend.Solve(ctx, model, timeLimit)
}

// GreedyBackendPlugin adapts infrastructure/solver/greedy.Backend to the
// sdk.BackendPlugin lifecycle interface.
type GreedyBackendPlugin struct {
	backend greedy.Backend
	verbose bool
}

// NewGreedyBackendPlugin returns a ready-to-register greedy plugin.
func NewGreedyBackendPlugin() *GreedyBackendPlugin {
	return &GreedyBackendPlugin{backend: greedy.New()}
}

func (p *GreedyBackendPlugin) Metadata() sdk.Metadata {
	return sdk.Metadata{
		ID:            "shiftsched.solver.greedy",
		Name:          "Greedy Branch-and-Bound Solver",
		Version:       "1.0.0",
		Author:        "shiftsched",
		Description:   "Built-in dependency-free fallback backend, no IIS support",
		License:       "MIT",
		Tags:          []string{"solver", "builtin", "heuristic"},
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"solve"},
	}
}

func (p *GreedyBackendPlugin) Kind() sdk.BackendKind { return sdk.KindHeuristic }

func (p *GreedyBackendPlugin) ConfigSchema() sdk.ConfigSchema {
	schema := sdk.NewConfigSchema("Greedy Solver", "Configuration for the built-in greedy fallback backend")
	schema.AddProperty("node_limit", sdk.PropertySchema{
		Type:        "integer",
		Title:       "Node limit",
		Description: "Maximum search-tree nodes to visit before returning the best solution found so far (omitted or zero means unlimited, bounded only by the per-call time limit)",
		Minimum:     sdk.FloatPtr(0),
	})
	schema.AddProperty("verbose", sdk.PropertySchema{
		Type:        "boolean",
		Title:       "Verbose health reporting",
		Description: "Include the configured node limit in HealthCheck details",
	})
	return schema
}

func (p *GreedyBackendPlugin) Initialize(ctx context.Context, config sdk.Config) error {
	if err := p.ConfigSchema().Validate(config.Raw); err != nil {
		return sdk.NewPluginError(p.Metadata().ID, "initialize", fmt.Errorf("%w: %v", sdk.ErrInvalidConfig, err))
	}
	if config.Has("node_limit") {
		p.backend.NodeLimit = config.GetInt("node_limit")
	}
	p.verbose = config.GetBool("verbose")
	return nil
}

func (p *GreedyBackendPlugin) HealthCheck(ctx context.Context) sdk.HealthStatus {
	status := sdk.NewHealthStatus(true, "greedy backend is healthy")
	if !p.verbose {
		return status
	}
	return status.WithDetails(map[string]any{
		"iis_extraction": p.Metadata().HasCapability("iis_extraction"),
		"node_limit":     p.backend.NodeLimit,
	})
}

func (p *GreedyBackendPlugin) Shutdown(ctx context.Context) error { return nil }

func (p *GreedyBackendPlugin) Name() string { return p.backend.Name() }

func (p *GreedyBackendPlugin) SupportsIIS() bool { return p.backend.SupportsIIS() }

func (p *GreedyBackendPlugin) Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error) {
	return p.backend.Solve(ctx, model, timeLimit)
}

// RegisterDefaults registers both built-in backends into reg. greedyNodeLimit
// configures the greedy backend's search-tree node cap (0 means unlimited);
// the HiGHS backend registers with its defaults since it has no equivalent
// operator-facing knob backed by pkg/config.
func RegisterDefaults(ctx context.Context, reg *registry.Registry, greedyNodeLimit int) error {
	highsConfig := sdk.NewConfig("shiftsched.solver.highs", nil)
	if err := reg.RegisterBuiltin(ctx, NewHighsBackendPlugin(), highsConfig); err != nil {
		return err
	}

	greedyConfig := sdk.NewConfig("shiftsched.solver.greedy", nil)
	if greedyNodeLimit > 0 {
		greedyConfig.Raw["node_limit"] = greedyNodeLimit
	}
	return reg.RegisterBuiltin(ctx, NewGreedyBackendPlugin(), greedyConfig)
}

// Verify interface compliance at compile time.
var (
	_ sdk.BackendPlugin = (*HighsBackendPlugin)(nil)
	_ sdk.BackendPlugin = (*GreedyBackendPlugin)(nil)
)

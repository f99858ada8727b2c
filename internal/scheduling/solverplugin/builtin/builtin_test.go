package builtin_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/builtin"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/registry"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultsRegistersBothBackends(t *testing.T) {
	reg := registry.New(nil)

	err := builtin.RegisterDefaults(context.Background(), reg, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count())
	assert.True(t, reg.Has("shiftsched.solver.highs"))
	assert.True(t, reg.Has("shiftsched.solver.greedy"))
}

func TestRegisterDefaultsAppliesGreedyNodeLimit(t *testing.T) {
	reg := registry.New(nil)

	err := builtin.RegisterDefaults(context.Background(), reg, 5)

	require.NoError(t, err)
	plug, err := reg.Get(context.Background(), "shiftsched.solver.greedy")
	require.NoError(t, err)
	_, ok := plug.(*builtin.GreedyBackendPlugin)
	assert.True(t, ok)

	// six unconstrained binaries need more than five search nodes, so the
	// configured limit ends the search before any complete assignment
	var m milp.Model
	for i := 0; i < 6; i++ {
		m.NewBinary("b")
	}
	sol, err := plug.Solve(context.Background(), m, time.Second)
	require.NoError(t, err)
	assert.Equal(t, milp.TimedOut, sol.Status)
}

func TestHighsPluginReportsMILPKindAndIIS(t *testing.T) {
	p := builtin.NewHighsBackendPlugin()

	assert.Equal(t, sdk.KindMILP, p.Kind())
	assert.True(t, p.SupportsIIS())
	assert.True(t, p.HealthCheck(context.Background()).Healthy)
}

func TestHighsPluginInitializeAppliesTagAndTimeLimitCap(t *testing.T) {
	p := builtin.NewHighsBackendPlugin()

	err := p.Initialize(context.Background(), sdk.NewConfig("shiftsched.solver.highs", map[string]any{
		"tag":            "nightly",
		"verbose":        true,
		"max_time_limit": "5s",
	}))
	require.NoError(t, err)

	status := p.HealthCheck(context.Background())
	assert.Equal(t, "nightly", status.Details["tag"])
	assert.Equal(t, true, status.Details["iis_extraction"])
	assert.Equal(t, (5 * time.Second).String(), status.Details["max_time_limit"])
}

func TestHighsPluginInitializeRejectsInvalidConfig(t *testing.T) {
	p := builtin.NewHighsBackendPlugin()

	err := p.Initialize(context.Background(), sdk.NewConfig("shiftsched.solver.highs", map[string]any{
		"tag": 42, // schema declares tag as a string
	}))

	require.Error(t, err)
	var pluginErr *sdk.PluginError
	require.ErrorAs(t, err, &pluginErr)
	assert.ErrorIs(t, err, sdk.ErrInvalidConfig)
}

func TestGreedyPluginReportsHeuristicKindAndNoIIS(t *testing.T) {
	p := builtin.NewGreedyBackendPlugin()

	assert.Equal(t, sdk.KindHeuristic, p.Kind())
	assert.False(t, p.SupportsIIS())
}

func TestGreedyPluginInitializeAppliesNodeLimit(t *testing.T) {
	p := builtin.NewGreedyBackendPlugin()

	err := p.Initialize(context.Background(), sdk.NewConfig("shiftsched.solver.greedy", map[string]any{
		"node_limit": 3,
		"verbose":    true,
	}))
	require.NoError(t, err)

	status := p.HealthCheck(context.Background())
	assert.Equal(t, 3, status.Details["node_limit"])
	assert.Equal(t, false, status.Details["iis_extraction"])
}

func TestGreedyPluginHealthCheckOmitsDetailsWhenNotVerbose(t *testing.T) {
	p := builtin.NewGreedyBackendPlugin()

	require.NoError(t, p.Initialize(context.Background(), sdk.NewConfig("shiftsched.solver.greedy", nil)))

	status := p.HealthCheck(context.Background())
	assert.True(t, status.Healthy)
	assert.Nil(t, status.Details)
}

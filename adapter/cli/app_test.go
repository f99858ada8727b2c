package cli_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shiftsched/adapter/cli"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/builtin"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/registry"
	"github.com/felixgeelhaar/shiftsched/pkg/config"
)

func newTestApp(t *testing.T) *cli.App {
	t.Helper()
	reg := registry.New(nil)
	require.NoError(t, builtin.RegisterDefaults(context.Background(), reg, 0))
	cfg := &config.Config{SolverBackend: "greedy"}
	return cli.NewApp(cfg, slog.Default(), reg)
}

func TestOrchestratorResolvesShortBackendID(t *testing.T) {
	app := newTestApp(t)

	orch, err := app.Orchestrator(context.Background(), "greedy")

	require.NoError(t, err)
	assert.NotNil(t, orch)
}

func TestOrchestratorFallsBackToConfigBackend(t *testing.T) {
	app := newTestApp(t)

	orch, err := app.Orchestrator(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, orch)
}

func TestOrchestratorReportsUnregisteredBackend(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Orchestrator(context.Background(), "nonexistent.backend")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not registered")
}

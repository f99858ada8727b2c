package grpc

import (
	"context"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
)

// BackendPluginServer is the interface for solver backend plugins, method-
// identical to sdk.BackendPlugin so a loaded plugin satisfies both without
// an adapter.
type BackendPluginServer interface {
	Metadata() sdk.Metadata
	Kind() sdk.BackendKind
	ConfigSchema() sdk.ConfigSchema
	Initialize(ctx context.Context, config sdk.Config) error
	HealthCheck(ctx context.Context) sdk.HealthStatus
	Shutdown(ctx context.Context) error
	Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error)
	SupportsIIS() bool
	Name() string
}

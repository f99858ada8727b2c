package grpc

import (
	"context"
	"time"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/milp"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
	grpclib "google.golang.org/grpc"
)

// BackendGRPCClient is the host-side gRPC client for a solver backend
// plugin. It wraps the gRPC connection and translates between Go types and
// protobuf messages.
type BackendGRPCClient struct {
	conn *grpclib.ClientConn
}

// Metadata returns the plugin metadata.
func (c *BackendGRPCClient) Metadata() sdk.Metadata {
	// Will call the gRPC Metadata RPC once proto bindings are generated.
	return sdk.Metadata{}
}

// Kind returns the backend's algorithmic family.
func (c *BackendGRPCClient) Kind() sdk.BackendKind {
	return sdk.KindMILP
}

// ConfigSchema returns the configuration schema.
func (c *BackendGRPCClient) ConfigSchema() sdk.ConfigSchema {
	return sdk.ConfigSchema{}
}

// Initialize initializes the plugin.
func (c *BackendGRPCClient) Initialize(ctx context.Context, config sdk.Config) error {
	return nil
}

// HealthCheck returns the health status.
func (c *BackendGRPCClient) HealthCheck(ctx context.Context) sdk.HealthStatus {
	return sdk.HealthStatus{Healthy: true}
}

// Shutdown shuts down the plugin.
func (c *BackendGRPCClient) Shutdown(ctx context.Context) error {
	return nil
}

// Solve sends the model to the plugin process and returns its solution.
func (c *BackendGRPCClient) Solve(ctx context.Context, model milp.Model, timeLimit time.Duration) (milp.Solution, error) {
	// Will call the gRPC Solve RPC once proto bindings for milp.Model are
	// generated; until then this client cannot reach a real remote backend.
	return milp.Solution{}, nil
}

// SupportsIIS reports whether the remote backend can drive the IIS decoder.
func (c *BackendGRPCClient) SupportsIIS() bool {
	return false
}

// Name returns the backend's name.
func (c *BackendGRPCClient) Name() string {
	return "grpc-plugin"
}

// Verify interface compliance at compile time.
var _ BackendPluginServer = (*BackendGRPCClient)(nil)

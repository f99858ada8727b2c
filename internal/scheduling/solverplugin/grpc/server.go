package grpc

import (
	"context"

	"github.com/hashicorp/go-plugin"
	grpclib "google.golang.org/grpc"
)

// Ensure BackendPlugin implements the GRPCPlugin interface.
var _ plugin.GRPCPlugin = (*BackendPlugin)(nil)

// GRPCServer registers the backend plugin's gRPC server. Registration needs
// generated proto code carrying milp.Model/milp.Solution over the wire,
// which this repository does not run protoc to produce; the gap is
// documented here rather than faked with a stub implementation.
func (p *BackendPlugin) GRPCServer(broker *plugin.GRPCBroker, s *grpclib.Server) error {
	return nil
}

// GRPCClient returns the gRPC client for a backend plugin.
func (p *BackendPlugin) GRPCClient(ctx context.Context, broker *plugin.GRPCBroker, c *grpclib.ClientConn) (interface{}, error) {
	return &BackendGRPCClient{conn: c}, nil
}

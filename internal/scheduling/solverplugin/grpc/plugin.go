// Package grpc provides gRPC-based plugin communication for shiftsched
// solver backends, using HashiCorp's go-plugin library for process
// isolation.
package grpc

import (
	"github.com/hashicorp/go-plugin"
)

// HandshakeConfig is used to verify that the plugin is compatible. Both the
// core and plugins must use the same handshake configuration.
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SHIFTSCHED_BACKEND_PLUGIN",
	MagicCookieValue: "shiftsched-backend-v1",
}

// PluginMap is the map of plugins a host process can dispense.
var PluginMap = map[string]plugin.Plugin{
	"backend": &BackendPlugin{},
}

// BackendPlugin is the plugin.Plugin implementation for solver backends.
type BackendPlugin struct {
	plugin.Plugin
	// Impl is the concrete implementation (plugin-side).
	Impl BackendPluginServer
}

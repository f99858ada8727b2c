package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors for common plugin error conditions.
var (
	// ErrBackendNotFound is returned when a plugin cannot be found in the registry.
	ErrBackendNotFound = errors.New("backend plugin not found")

	// ErrBackendAlreadyExists is returned when trying to register a duplicate plugin.
	ErrBackendAlreadyExists = errors.New("backend plugin already exists")

	// ErrInvalidConfig is returned when plugin configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrVersionIncompatible is returned when SDK and plugin versions are incompatible.
	ErrVersionIncompatible = errors.New("incompatible version")
)

// PluginError wraps an error with plugin context.
type PluginError struct {
	BackendID string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("backend %s: %s: %v", e.BackendID, e.Operation, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.BackendID, e.Err)
}

// Unwrap returns the underlying error.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(backendID, operation string, err error) *PluginError {
	return &PluginError{BackendID: backendID, Operation: operation, Err: err}
}

// LoadError represents an error during plugin loading.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load plugin %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load plugin %q: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(path, reason string, err error) *LoadError {
	return &LoadError{Path: path, Reason: reason, Err: err}
}

// IsBackendNotFound checks if the error is ErrBackendNotFound.
func IsBackendNotFound(err error) bool {
	return errors.Is(err, ErrBackendNotFound)
}

// Package registry provides solver backend plugin registration, discovery,
// and lifecycle management, keyed by backend ID; ListByKind filters the
// registered backends by sdk.BackendKind (milp/heuristic).
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
)

// Registry manages backend plugin registration and lookup.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Entry
	logger   *slog.Logger
}

// Entry holds a registered backend plugin and its metadata.
type Entry struct {
	// Plugin is the loaded plugin instance (nil if not loaded).
	Plugin sdk.BackendPlugin

	// Factory creates new plugin instances.
	Factory sdk.Factory

	// Manifest contains the plugin manifest.
	Manifest *Manifest

	// Status is the current plugin status.
	Status Status

	// Error contains any error from the last operation.
	Error error

	// Builtin indicates if this plugin ships in-process with the core.
	Builtin bool
}

// Status represents the current state of a backend plugin.
type Status string

const (
	StatusUnloaded Status = "unloaded"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusFailed   Status = "failed"
	StatusShutdown Status = "shutdown"
)

// New creates a new backend plugin registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backends: make(map[string]Entry),
		logger:   logger,
	}
}

// RegisterBuiltin validates, initializes, and registers an in-process
// backend plugin, giving it the same Initialize(ctx, Config) lifecycle call
// a loaded external plugin gets in Loader.Load.
func (r *Registry) RegisterBuiltin(ctx context.Context, plug sdk.BackendPlugin, config sdk.Config) error {
	metadata := plug.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid builtin plugin metadata: %w", err)
	}

	if err := plug.Initialize(ctx, config); err != nil {
		return fmt.Errorf("initialize builtin backend %s: %w", metadata.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[metadata.ID]; exists {
		return sdk.ErrBackendAlreadyExists
	}

	r.backends[metadata.ID] = Entry{
		Plugin:  plug,
		Status:  StatusReady,
		Builtin: true,
		Manifest: &Manifest{
			ID:            metadata.ID,
			Name:          metadata.Name,
			Version:       metadata.Version,
			Kind:          plug.Kind().String(),
			Author:        metadata.Author,
			Description:   metadata.Description,
			License:       metadata.License,
			Homepage:      metadata.Homepage,
			MinAPIVersion: metadata.MinAPIVersion,
		},
	}

	r.logger.Info("registered built-in backend",
		"backend_id", metadata.ID,
		"kind", plug.Kind(),
	)
	return nil
}

// RegisterFactory registers a backend plugin factory for lazy loading.
func (r *Registry) RegisterFactory(id string, factory sdk.Factory, manifest *Manifest) error {
	if id == "" {
		return fmt.Errorf("backend ID is required")
	}
	if manifest != nil {
		if err := manifest.Validate(); err != nil {
			return fmt.Errorf("invalid manifest for backend %s: %w", id, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[id]; exists {
		return sdk.ErrBackendAlreadyExists
	}

	r.backends[id] = Entry{Factory: factory, Manifest: manifest, Status: StatusUnloaded}
	r.logger.Info("registered backend factory", "backend_id", id)
	return nil
}

// Get returns a backend plugin by ID, loading it if necessary.
func (r *Registry) Get(ctx context.Context, id string) (sdk.BackendPlugin, error) {
	r.mu.RLock()
	entry, exists := r.backends[id]
	r.mu.RUnlock()

	if !exists {
		return nil, sdk.ErrBackendNotFound
	}
	if entry.Status == StatusReady && entry.Plugin != nil {
		return entry.Plugin, nil
	}
	if entry.Status == StatusFailed {
		return nil, entry.Error
	}
	if entry.Status == StatusUnloaded && entry.Factory != nil {
		return r.loadBackend(id)
	}
	return nil, fmt.Errorf("backend %s is in unexpected state: %s", id, entry.Status)
}

func (r *Registry) loadBackend(id string) (sdk.BackendPlugin, error) {
	r.mu.Lock()
	entry := r.backends[id]
	entry.Status = StatusLoading
	r.backends[id] = entry
	r.mu.Unlock()

	r.logger.Info("loading backend", "backend_id", id)

	plug, err := entry.Factory()
	if err != nil {
		r.mu.Lock()
		entry.Status = StatusFailed
		entry.Error = err
		r.backends[id] = entry
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to create backend %s: %w", id, err)
	}

	r.mu.Lock()
	entry.Plugin = plug
	entry.Status = StatusReady
	entry.Error = nil
	r.backends[id] = entry
	r.mu.Unlock()

	r.logger.Info("backend loaded", "backend_id", id, "kind", plug.Kind())
	return plug, nil
}

// Unregister removes a backend plugin from the registry.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.backends[id]
	if !exists {
		return sdk.ErrBackendNotFound
	}
	if entry.Builtin {
		return fmt.Errorf("cannot unregister built-in backend %s", id)
	}
	delete(r.backends, id)
	r.logger.Info("unregistered backend", "backend_id", id)
	return nil
}

// List returns all registered backend plugins.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.backends))
	for _, entry := range r.backends {
		entries = append(entries, entry)
	}
	return entries
}

// ListByKind returns all backend plugins of a specific kind.
func (r *Registry) ListByKind(kind sdk.BackendKind) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []Entry
	for _, entry := range r.backends {
		if entry.Manifest != nil && entry.Manifest.Kind == kind.String() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Has checks if a backend is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.backends[id]
	return exists
}

// StatusOf returns the status of a backend.
func (r *Registry) StatusOf(id string) (Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.backends[id]
	if !exists {
		return "", sdk.ErrBackendNotFound
	}
	return entry.Status, nil
}

// ShutdownAll shuts down all loaded backend plugins.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, entry := range r.backends {
		if entry.Plugin != nil && entry.Status == StatusReady {
			r.logger.Info("shutting down backend", "backend_id", id)
			if err := entry.Plugin.Shutdown(ctx); err != nil {
				r.logger.Error("failed to shutdown backend", "backend_id", id, "error", err)
				errs = append(errs, fmt.Errorf("backend %s: %w", id, err))
			}
			entry.Status = StatusShutdown
			r.backends[id] = entry
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors shutting down backends: %v", errs)
	}
	return nil
}

// Count returns the number of registered backends.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.backends)
}

// GetMetadata returns metadata for a backend.
func (r *Registry) GetMetadata(id string) (*sdk.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.backends[id]
	if !exists {
		return nil, sdk.ErrBackendNotFound
	}
	if entry.Plugin != nil {
		metadata := entry.Plugin.Metadata()
		return &metadata, nil
	}
	if entry.Manifest != nil {
		return &sdk.Metadata{
			ID:            entry.Manifest.ID,
			Name:          entry.Manifest.Name,
			Version:       entry.Manifest.Version,
			Author:        entry.Manifest.Author,
			Description:   entry.Manifest.Description,
			License:       entry.Manifest.License,
			Homepage:      entry.Manifest.Homepage,
			MinAPIVersion: entry.Manifest.MinAPIVersion,
		}, nil
	}
	return nil, fmt.Errorf("no metadata available for backend %s", id)
}

package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
)

// Discovery handles plugin discovery from filesystem locations.
type Discovery struct {
	// SearchPaths are directories to search for plugins.
	SearchPaths []string

	logger *slog.Logger
}

// NewDiscovery creates a new plugin discovery service.
func NewDiscovery(searchPaths []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{SearchPaths: searchPaths, logger: logger}
}

// DiscoveredPlugin represents a discovered plugin with its manifest.
type DiscoveredPlugin struct {
	Path     string
	Manifest *Manifest
}

// Discover searches for plugin manifests in all search paths. When the same
// backend ID appears more than once (e.g. an operator upgraded a plugin by
// dropping a new directory alongside the old one), the manifest with the
// higher semantic Version wins; ties and unparsable versions keep whichever
// copy was found first.
func (d *Discovery) Discover() ([]DiscoveredPlugin, error) {
	var plugins []DiscoveredPlugin
	indexByID := make(map[string]int)

	for _, searchPath := range d.SearchPaths {
		discovered, err := d.discoverInPath(searchPath)
		if err != nil {
			d.logger.Warn("failed to search path", "path", searchPath, "error", err)
			continue
		}
		for _, plug := range discovered {
			idx, exists := indexByID[plug.Manifest.ID]
			if !exists {
				indexByID[plug.Manifest.ID] = len(plugins)
				plugins = append(plugins, plug)
				continue
			}
			if newerManifestVersion(plug.Manifest, plugins[idx].Manifest) {
				d.logger.Info("preferring newer duplicate backend",
					"backend_id", plug.Manifest.ID, "version", plug.Manifest.Version,
					"replaces_version", plugins[idx].Manifest.Version, "path", plug.Path)
				plugins[idx] = plug
				continue
			}
			d.logger.Warn("duplicate backend ID found, keeping first", "backend_id", plug.Manifest.ID, "path", plug.Path)
		}
	}

	d.logger.Info("plugin discovery complete", "found", len(plugins))
	return plugins, nil
}

// newerManifestVersion reports whether candidate's Version is strictly
// greater than current's. Either manifest failing to parse as a semantic
// version keeps current, since there is no well-defined ordering to prefer.
func newerManifestVersion(candidate, current *Manifest) bool {
	cv, err := sdk.ParseVersion(candidate.Version)
	if err != nil {
		return false
	}
	pv, err := sdk.ParseVersion(current.Version)
	if err != nil {
		return false
	}
	return cv.Compare(pv) > 0
}

func (d *Discovery) discoverInPath(searchPath string) ([]DiscoveredPlugin, error) {
	info, err := os.Stat(searchPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", searchPath)
	}

	var plugins []DiscoveredPlugin
	entries, err := os.ReadDir(searchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pluginDir := filepath.Join(searchPath, entry.Name())
		manifestPath := filepath.Join(pluginDir, DefaultManifestFilename)

		if _, err := os.Stat(manifestPath); err != nil {
			continue
		}

		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			d.logger.Warn("failed to load manifest", "path", manifestPath, "error", err)
			continue
		}

		plugins = append(plugins, DiscoveredPlugin{Path: pluginDir, Manifest: manifest})
		d.logger.Debug("discovered plugin", "backend_id", manifest.ID, "path", pluginDir)
	}

	return plugins, nil
}

// DiscoverSingle discovers a plugin from a specific directory.
func (d *Discovery) DiscoverSingle(dir string) (*DiscoveredPlugin, error) {
	manifestPath, err := FindManifestInDir(dir)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return &DiscoveredPlugin{Path: dir, Manifest: manifest}, nil
}

// DefaultSearchPaths returns the default plugin search paths.
func DefaultSearchPaths() []string {
	paths := []string{}

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".shiftsched", "plugins"))
	}
	paths = append(paths, "/usr/local/share/shiftsched/plugins")

	if envPath := os.Getenv("SHIFTSCHED_PLUGIN_PATH"); envPath != "" {
		paths = append([]string{envPath}, paths...)
	}
	return paths
}

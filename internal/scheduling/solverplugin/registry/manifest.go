package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
)

// Manifest describes a plugin backend and its requirements, typically
// loaded from a backend.json file in the plugin directory.
type Manifest struct {
	// ID is the unique identifier (e.g., "acme.milp-cplex").
	ID string `json:"id"`

	// Name is a human-readable name.
	Name string `json:"name"`

	// Version is the semantic version (e.g., "1.0.0").
	Version string `json:"version"`

	// Kind is the backend's algorithmic family: "milp" or "heuristic".
	Kind string `json:"kind"`

	// BinaryPath is the path to the plugin binary (relative to manifest).
	BinaryPath string `json:"binary_path,omitempty"`

	// MinAPIVersion is the minimum SDK version required.
	MinAPIVersion string `json:"min_api_version"`

	// Author is the author or organization.
	Author string `json:"author"`

	// Description describes what the backend does.
	Description string `json:"description"`

	// License is the license type (e.g., "MIT", "Apache-2.0").
	License string `json:"license,omitempty"`

	// Homepage is a URL to documentation or project page.
	Homepage string `json:"homepage,omitempty"`

	// Checksum is the SHA256 checksum of the binary.
	Checksum string `json:"checksum,omitempty"`

	// Capabilities lists backend-specific capabilities.
	Capabilities []string `json:"capabilities,omitempty"`

	// Tags are searchable tags for plugin discovery.
	Tags []string `json:"tags,omitempty"`

	// ConfigDefaults provides default configuration values.
	ConfigDefaults map[string]any `json:"config_defaults,omitempty"`

	dir string
}

// LoadManifest loads a manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	manifest.dir = filepath.Dir(path)

	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &manifest, nil
}

// Validate validates the manifest fields.
func (m *Manifest) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if m.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	if m.MinAPIVersion == "" {
		return fmt.Errorf("min_api_version is required")
	}

	kind := sdk.BackendKind(m.Kind)
	if !kind.IsValid() {
		return fmt.Errorf("invalid backend kind: %s", m.Kind)
	}

	minVersion, err := sdk.ParseVersion(m.MinAPIVersion)
	if err != nil {
		return fmt.Errorf("invalid min_api_version: %w", err)
	}
	if !sdk.SDKVersion.Compatible(minVersion) {
		return fmt.Errorf("%w: SDK version %s is not compatible with required %s",
			sdk.ErrVersionIncompatible, sdk.SDKVersion.String(), m.MinAPIVersion)
	}
	return nil
}

// BackendKind returns the manifest's kind as sdk.BackendKind.
func (m *Manifest) BackendKind() sdk.BackendKind {
	return sdk.BackendKind(m.Kind)
}

// BinaryAbsPath returns the absolute path to the plugin binary.
func (m *Manifest) BinaryAbsPath() string {
	if filepath.IsAbs(m.BinaryPath) {
		return m.BinaryPath
	}
	return filepath.Join(m.dir, m.BinaryPath)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}

// ToMetadata converts the manifest to sdk.Metadata.
func (m *Manifest) ToMetadata() sdk.Metadata {
	return sdk.Metadata{
		ID:            m.ID,
		Name:          m.Name,
		Version:       m.Version,
		Author:        m.Author,
		Description:   m.Description,
		License:       m.License,
		Homepage:      m.Homepage,
		Tags:          m.Tags,
		MinAPIVersion: m.MinAPIVersion,
		Capabilities:  m.Capabilities,
	}
}

// SaveManifest saves a manifest to a file.
func SaveManifest(path string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// DefaultManifestFilename is the default filename for backend manifests.
const DefaultManifestFilename = "backend.json"

// FindManifestInDir searches for a manifest file in a directory.
func FindManifestInDir(dir string) (string, error) {
	path := filepath.Join(dir, DefaultManifestFilename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("manifest not found in %s: %w", dir, err)
	}
	return path, nil
}

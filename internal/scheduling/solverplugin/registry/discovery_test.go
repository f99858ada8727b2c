package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/registry"
)

func writeManifest(t *testing.T, dir, id, version string) {
	t.Helper()
	pluginDir := filepath.Join(dir, id+"-"+version)
	require.NoError(t, os.MkdirAll(pluginDir, 0755))
	require.NoError(t, registry.SaveManifest(filepath.Join(pluginDir, registry.DefaultManifestFilename), &registry.Manifest{
		ID:            id,
		Name:          "Test Backend",
		Version:       version,
		Kind:          "heuristic",
		MinAPIVersion: "1.0.0",
	}))
}

func TestDiscoverPrefersHigherVersionOnDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "acme.solver", "1.0.0")
	writeManifest(t, dir, "acme.solver", "1.2.0")

	d := registry.NewDiscovery([]string{dir}, nil)
	found, err := d.Discover()

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1.2.0", found[0].Manifest.Version)
}

func TestDiscoverKeepsFirstFoundWhenDuplicateVersionIsUnparsable(t *testing.T) {
	dir := t.TempDir()
	// "0-bad" sorts before "2.0.0" in directory-entry order, so discovery
	// visits it first; since it fails sdk.ParseVersion, the parseable
	// "2.0.0" found afterward must not be treated as newer.
	writeManifest(t, dir, "acme.solver", "0-bad")
	writeManifest(t, dir, "acme.solver", "2.0.0")

	d := registry.NewDiscovery([]string{dir}, nil)
	found, err := d.Discover()

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "0-bad", found[0].Manifest.Version)
}

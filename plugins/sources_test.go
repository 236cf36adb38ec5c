package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writePluginFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStaticSource(t *testing.T) {
	s := NewStaticSource()
	assert.Equal(t, SourceStatic, s.Kind())

	s.RegisterManifest("plugin1", "1.0.0", &Manifest{Templates: "/t"})
	s.Register("plugin2", "2.0.0", nil)

	discovered, err := s.Discover()
	require.NoError(t, err)
	require.Len(t, discovered, 2)
	assert.Equal(t, "plugin1", discovered[0].Name)
	assert.Equal(t, "1.0.0", discovered[0].Version)

	m, err := discovered[0].Manifest()
	require.NoError(t, err)
	assert.Equal(t, "/t", m.Templates)
}

func TestFileSource_Discover(t *testing.T) {
	dir := t.TempDir()
	writePluginFile(t, dir, "beta.yml", `
name: beta
version: 2.0.0
patches:
  mypatch: "Hello!"
`)
	writePluginFile(t, dir, "alpha.yaml", `
name: alpha
version: 1.0.0
config:
  set:
    PARAM: value
`)
	writePluginFile(t, dir, "ignored.txt", "not a plugin")

	s := NewFileSource(dir, zap.NewNop())
	assert.Equal(t, SourceFile, s.Kind())
	assert.Equal(t, dir, s.Root())

	discovered, err := s.Discover()
	require.NoError(t, err)
	require.Len(t, discovered, 2)
	// Files are scanned in sorted path order.
	assert.Equal(t, "alpha", discovered[0].Name)
	assert.Equal(t, "beta", discovered[1].Name)

	m, err := discovered[1].Manifest()
	require.NoError(t, err)
	patches, err := m.patchMap("beta")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mypatch": "Hello!"}, patches)
}

func TestFileSource_SkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writePluginFile(t, dir, "good.yml", "name: good\nversion: 1.0.0\n")
	writePluginFile(t, dir, "noname.yml", "version: 1.0.0\n")
	writePluginFile(t, dir, "noversion.yml", "name: bad\n")
	writePluginFile(t, dir, "garbage.yml", "::: not yaml {{{")

	s := NewFileSource(dir, zap.NewNop())
	discovered, err := s.Discover()
	require.NoError(t, err)
	require.Len(t, discovered, 1)
	assert.Equal(t, "good", discovered[0].Name)
}

func TestFileSource_EmptyDirectory(t *testing.T) {
	s := NewFileSource(t.TempDir(), zap.NewNop())
	discovered, err := s.Discover()
	require.NoError(t, err)
	assert.Empty(t, discovered)
}

func TestDefaultRoot_EnvOverride(t *testing.T) {
	t.Setenv(RootEnvVar, "/custom/plugins")
	assert.Equal(t, "/custom/plugins", DefaultRoot())
}

func TestPackageSource_Discover(t *testing.T) {
	enumerate := func() ([]Entrypoint, error) {
		return []Entrypoint{
			{Name: "pkg1", Version: "1.2.3", Resolve: func() (*Manifest, error) {
				return &Manifest{Templates: "/pkg1"}, nil
			}},
			{Name: "", Resolve: func() (*Manifest, error) { return nil, nil }},
			{Name: "noresolver"},
			{Name: "noversion", Resolve: func() (*Manifest, error) { return nil, nil }},
		}, nil
	}

	s := NewPackageSource(enumerate, zap.NewNop())
	assert.Equal(t, SourcePackage, s.Kind())

	discovered, err := s.Discover()
	require.NoError(t, err)
	require.Len(t, discovered, 2)
	assert.Equal(t, "pkg1", discovered[0].Name)
	assert.Equal(t, "1.2.3", discovered[0].Version)
	assert.Equal(t, "noversion", discovered[1].Name)
	assert.Equal(t, "0.0.0", discovered[1].Version)
}

func TestPackageSource_EnumeratorError(t *testing.T) {
	s := NewPackageSource(func() ([]Entrypoint, error) {
		return nil, assert.AnError
	}, zap.NewNop())

	_, err := s.Discover()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPackageSource_NilEnumerator(t *testing.T) {
	s := NewPackageSource(nil, zap.NewNop())
	discovered, err := s.Discover()
	require.NoError(t, err)
	assert.Empty(t, discovered)
}

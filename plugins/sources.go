package plugins

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RootEnvVar overrides the root directory scanned for declarative
// plugin files.
const RootEnvVar = "OPSMITH_PLUGINS_ROOT"

// Source discovers plugins of one variant. Implementations log and
// skip entries that fail to resolve; a non-nil error means the source
// as a whole could not be scanned.
type Source interface {
	Kind() SourceKind
	Discover() ([]*Plugin, error)
}

// DefaultRoot returns the declarative plugin directory: the RootEnvVar
// override when set, otherwise a per-user data directory.
func DefaultRoot() string {
	if root := os.Getenv(RootEnvVar); root != "" {
		return root
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "opsmith", "plugins")
	}
	return "plugins"
}

// StaticSource holds plugins registered explicitly in code.
type StaticSource struct {
	mu      sync.Mutex
	plugins []*Plugin
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// Kind returns SourceStatic.
func (s *StaticSource) Kind() SourceKind { return SourceStatic }

// Register adds a statically-known plugin with a lazy manifest resolver.
func (s *StaticSource) Register(name, version string, resolve Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins = append(s.plugins, NewPlugin(name, version, SourceStatic, resolve))
}

// RegisterManifest adds a statically-known plugin with an already-built
// manifest.
func (s *StaticSource) RegisterManifest(name, version string, m *Manifest) {
	s.Register(name, version, func() (*Manifest, error) { return m, nil })
}

// Discover returns the registered plugins.
func (s *StaticSource) Discover() ([]*Plugin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Plugin, len(s.plugins))
	copy(out, s.plugins)
	return out, nil
}

// FileSource scans a directory for declarative plugin files, one plugin
// per *.yml/*.yaml file. Each file must carry string "name" and
// "version" fields; a file that fails to load or is missing those is
// logged as a warning and skipped, and discovery continues.
type FileSource struct {
	root   string
	logger *zap.Logger
}

// NewFileSource creates a file source rooted at root. An empty root
// selects DefaultRoot.
func NewFileSource(root string, logger *zap.Logger) *FileSource {
	if root == "" {
		root = DefaultRoot()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{
		root:   root,
		logger: logger.With(zap.String("component", "plugin_file_source")),
	}
}

// Kind returns SourceFile.
func (s *FileSource) Kind() SourceKind { return SourceFile }

// Root returns the scanned directory.
func (s *FileSource) Root() string { return s.root }

// Discover scans the root directory.
func (s *FileSource) Discover() ([]*Plugin, error) {
	var paths []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(s.root, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	var discovered []*Plugin
	for _, path := range paths {
		p, err := s.loadFile(path)
		if err != nil {
			s.logger.Warn("skipping invalid plugin file",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		discovered = append(discovered, p)
	}
	return discovered, nil
}

func (s *FileSource) loadFile(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	name, ok := raw["name"].(string)
	if !ok || name == "" {
		return nil, errMissingField(path, "name")
	}
	version, ok := raw["version"].(string)
	if !ok || version == "" {
		return nil, errMissingField(path, "version")
	}

	manifest := &Manifest{
		Config:    raw["config"],
		Patches:   raw["patches"],
		Hooks:     raw["hooks"],
		Templates: raw["templates"],
	}
	return NewPlugin(name, version, SourceFile, func() (*Manifest, error) {
		return manifest, nil
	}), nil
}

// Entrypoint is one record yielded by the installed-package enumerator:
// a name, a loadable manifest reference, and the distribution version.
type Entrypoint struct {
	Name    string
	Version string
	Resolve Resolver
}

// Enumerator lists the host runtime's installed-package extension
// points. It is an injected capability so the kernel itself never
// performs dynamic loading, and so tests can swap it out.
type Enumerator func() ([]Entrypoint, error)

// PackageSource discovers plugins through an entry-point enumerator.
type PackageSource struct {
	enumerate Enumerator
	logger    *zap.Logger
}

// NewPackageSource creates a package source over the given enumerator.
func NewPackageSource(enumerate Enumerator, logger *zap.Logger) *PackageSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageSource{
		enumerate: enumerate,
		logger:    logger.With(zap.String("component", "plugin_package_source")),
	}
}

// Kind returns SourcePackage.
func (s *PackageSource) Kind() SourceKind { return SourcePackage }

// Discover enumerates entry points. Malformed entries are logged and
// skipped; the rest of the enumeration continues.
func (s *PackageSource) Discover() ([]*Plugin, error) {
	if s.enumerate == nil {
		return nil, nil
	}
	entrypoints, err := s.enumerate()
	if err != nil {
		return nil, err
	}

	var discovered []*Plugin
	for _, ep := range entrypoints {
		if ep.Name == "" || ep.Resolve == nil {
			s.logger.Warn("skipping invalid entrypoint",
				zap.String("name", ep.Name))
			continue
		}
		version := ep.Version
		if version == "" {
			version = "0.0.0"
		}
		discovered = append(discovered, NewPlugin(ep.Name, version, SourcePackage, ep.Resolve))
	}
	return discovered, nil
}

type fieldError struct {
	path  string
	field string
}

func (e fieldError) Error() string {
	return "plugin file " + e.path + ": missing or invalid " + e.field
}

func errMissingField(path, field string) error {
	return fieldError{path: path, field: field}
}

package plugins

import (
	"github.com/opsmith-io/opsmith/types"
)

// SourceKind tags the discovery variant a plugin came from.
type SourceKind int

const (
	// SourceStatic - registered explicitly in code, not scanned.
	SourceStatic SourceKind = iota
	// SourceFile - scanned from a declarative YAML file.
	SourceFile
	// SourcePackage - discovered through the installed-package
	// entry-point enumerator.
	SourcePackage
)

// String returns a string representation of the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceStatic:
		return "static"
	case SourceFile:
		return "file"
	case SourcePackage:
		return "package"
	default:
		return "unknown"
	}
}

// Resolver lazily produces a plugin's manifest. Resolution is deferred
// until enable because it may be costly; only enabled plugins pay it.
type Resolver func() (*Manifest, error)

// Plugin is the descriptor shared by every source variant. Names are
// not required to be globally unique: two installed plugins may share a
// name, and both are then treated as independent contributors.
type Plugin struct {
	Name    string
	Version string

	kind     SourceKind
	resolve  Resolver
	manifest *Manifest
}

// NewPlugin creates a plugin descriptor. A nil resolver yields an empty
// manifest (no contributions).
func NewPlugin(name, version string, kind SourceKind, resolve Resolver) *Plugin {
	return &Plugin{
		Name:    name,
		Version: version,
		kind:    kind,
		resolve: resolve,
	}
}

// Kind returns the discovery variant the plugin came from.
func (p *Plugin) Kind() SourceKind {
	return p.kind
}

// Manifest resolves and caches the plugin's contribution record.
func (p *Plugin) Manifest() (*Manifest, error) {
	if p.manifest != nil {
		return p.manifest, nil
	}
	if p.resolve == nil {
		p.manifest = &Manifest{}
		return p.manifest, nil
	}

	m, err := p.resolve()
	if err != nil {
		return nil, types.NewError(types.ErrDiscovery,
			"plugin %q: resolving manifest", p.Name).WithPlugin(p.Name).WithCause(err)
	}
	if m == nil {
		m = &Manifest{}
	}
	p.manifest = m
	return p.manifest, nil
}

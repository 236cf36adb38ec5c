package plugins

import (
	"go.uber.org/zap"

	"github.com/opsmith-io/opsmith/config"
	"github.com/opsmith-io/opsmith/hooks"
	"github.com/opsmith-io/opsmith/types"
)

// Bootstrap actions wired by the Registry.
const (
	// ActionInstall discovers every source and installs each plugin it
	// yields. Guarded by DoOnce so repeated config loads scan once.
	ActionInstall = "plugins:install"
	// ActionEnable receives the enabled-names list and fires each
	// plugin's enable trigger.
	ActionEnable = "plugins:enable"
	// ActionConfigLoad is dispatched by the host once the user config
	// is read; it drives install-then-enable.
	ActionConfigLoad = "config:load"
)

// Registry owns the plugin sources and wires the bootstrap actions into
// a kernel: dispatching ActionConfigLoad with the user config installs
// all discovered plugins (once per process) and enables the subset
// named by the PLUGINS key.
type Registry struct {
	kernel  *hooks.Kernel
	sources []Source
	logger  *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSources sets the plugin sources scanned at install time.
func WithSources(sources ...Source) RegistryOption {
	return func(r *Registry) {
		r.sources = append(r.sources, sources...)
	}
}

// WithRegistryLogger overrides the logger inherited from the kernel.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry and registers its bootstrap actions on
// the kernel.
func NewRegistry(k *hooks.Kernel, opts ...RegistryOption) *Registry {
	r := &Registry{kernel: k}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = k.Logger()
	}
	r.logger = r.logger.With(zap.String("component", "plugin_registry"))

	r.bind()
	return r
}

// AddSource appends a source scanned by future installs. Sources added
// after the first install are not rescanned.
func (r *Registry) AddSource(s Source) {
	r.sources = append(r.sources, s)
}

// Sources returns the configured sources.
func (r *Registry) Sources() []Source {
	return r.sources
}

func (r *Registry) bind() {
	actions := r.kernel.Actions()

	actions.Add(ActionInstall, func(_ ...any) error {
		r.installAll()
		return nil
	})

	actions.Add(ActionEnable, func(args ...any) error {
		names, err := enabledArg(args)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := actions.DoOnce(EnableAction(name)); err != nil {
				return err
			}
		}
		return nil
	})

	actions.Add(ActionConfigLoad, func(args ...any) error {
		if len(args) == 0 {
			return types.NewError(types.ErrValidation,
				"action %q: missing config argument", ActionConfigLoad)
		}
		cfg, err := types.Cast(args[0])
		if err != nil {
			return err
		}

		if err := actions.DoOnce(ActionInstall); err != nil {
			return err
		}
		names, err := config.EnabledNames(cfg)
		if err != nil {
			return err
		}
		return actions.Do(ActionEnable, names)
	})
}

// installAll scans every source. A source that fails to scan is logged
// and skipped; discovery of the remaining sources continues.
func (r *Registry) installAll() {
	for _, source := range r.sources {
		discovered, err := source.Discover()
		if err != nil {
			r.logger.Warn("plugin discovery failed",
				zap.Stringer("source", source.Kind()),
				zap.Error(err))
			continue
		}
		for _, p := range discovered {
			Install(r.kernel, p)
		}
	}
}

func enabledArg(args []any) ([]string, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	switch names := args[0].(type) {
	case []string:
		return names, nil
	case []any:
		out := make([]string, 0, len(names))
		for _, item := range names {
			name, ok := item.(string)
			if !ok {
				return nil, types.NewError(types.ErrValidation,
					"action %q: expected string plugin name, got %T", ActionEnable, item)
			}
			out = append(out, name)
		}
		return out, nil
	default:
		return nil, types.NewError(types.ErrValidation,
			"action %q: expected name list, got %T", ActionEnable, args[0])
	}
}

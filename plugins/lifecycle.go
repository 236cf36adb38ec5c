package plugins

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/opsmith-io/opsmith/config"
	"github.com/opsmith-io/opsmith/hooks"
	"github.com/opsmith-io/opsmith/types"
)

// Well-known pipelines fed by the plugin lifecycle.
const (
	// FilterInstalled accumulates the installed plugin descriptors.
	FilterInstalled = "plugins:installed"
	// FilterEnabled accumulates the enabled plugin descriptors, not
	// deduplicated by name.
	FilterEnabled = "plugins:enabled"
	// FilterPatches answers "all contributions to patch X" queries.
	FilterPatches = "env:patches"
	// FilterHooks answers "all contributions to hook X" queries.
	FilterHooks = "apps:tasks"
	// FilterTemplateRoots accumulates template root paths.
	FilterTemplateRoots = "env:templates:roots"
	// FilterTemplateTargets accumulates (src, dst) render mappings.
	FilterTemplateTargets = "env:templates:targets"
	// FilterCommands accumulates contributed CLI commands.
	FilterCommands = "cli:commands"
)

// ScopePlugins is the ancestor scope of every plugin registration.
// Clearing it removes the entire plugin subtree in one call.
const ScopePlugins hooks.Scope = "plugins"

// TemplateTarget maps a template source subdirectory to a render
// destination.
type TemplateTarget struct {
	Src string
	Dst string
}

// PluginScope returns the scope the named plugin's install-time
// registrations are tagged with.
func PluginScope(name string) hooks.Scope {
	return ScopePlugins.Child(name)
}

// enabledScope tags the registrations Load makes, nested one level
// under the install scope. Disable clears only this subtree, so the
// installed descriptor and the enable trigger survive a disable.
func enabledScope(name string) hooks.Scope {
	return PluginScope(name).Child("enabled")
}

// EnableAction returns the name of the plugin's enable-trigger action.
func EnableAction(name string) string {
	return "plugins:" + name + ":enable"
}

// Install makes a discovered plugin known without activating anything:
// it appends the descriptor to the installed list and registers the
// enable trigger fired later by the config-load comparison. If multiple
// plugins share a name they are all installed.
func Install(k *hooks.Kernel, p *Plugin) {
	scope := PluginScope(p.Name)

	k.Filters().AddItemsIn(scope, FilterInstalled, p)
	k.Actions().AddIn(scope, EnableAction(p.Name), func(_ ...any) error {
		return Load(k, p)
	})

	k.Metrics().PluginInstalled()
	k.Logger().Debug("plugin installed",
		zap.String("plugin", p.Name),
		zap.String("version", p.Version),
		zap.Stringer("source", p.Kind()))
}

// Load activates a plugin's contributions into the live pipelines.
// The five contribution loaders run in a fixed order; each validates
// its field before registering anything, and a validation failure
// aborts the remaining loaders without rolling back earlier ones.
//
// Load is idempotent only through the fire-once enable trigger:
// calling it twice directly re-registers duplicate contributions.
func Load(k *hooks.Kernel, p *Plugin) error {
	scope := enabledScope(p.Name)

	k.Filters().AddItemsIn(scope, FilterEnabled, p)

	m, err := p.Manifest()
	if err != nil {
		return err
	}

	loaders := []func(*hooks.Kernel, hooks.Scope, string, *Manifest) error{
		loadConfig,
		loadPatches,
		loadHooks,
		loadTemplatesRoot,
		loadCommand,
	}
	for _, load := range loaders {
		if err := load(k, scope, p.Name, m); err != nil {
			return err
		}
	}

	k.Metrics().PluginEnabled()
	k.Logger().Info("plugin enabled",
		zap.String("plugin", p.Name),
		zap.String("version", p.Version))
	return nil
}

// Disable reverses Load: it deletes from cfg every key the plugin's
// "set" contribution introduced, removes the name from the enabled
// list, and clears every registry entry tagged with the plugin's
// activation scope. The installed descriptor and the enable trigger
// stay registered, so the plugin can be enabled again.
func Disable(k *hooks.Kernel, cfg types.Config, p *Plugin) error {
	scope := enabledScope(p.Name)

	overridden, err := config.Overrides(k, scope)
	if err != nil {
		return err
	}
	for key := range overridden {
		delete(cfg, key)
	}

	if _, ok := cfg[config.PluginsKey]; ok {
		names, err := config.EnabledNames(cfg)
		if err != nil {
			return err
		}
		kept := names[:0:0]
		for _, name := range names {
			if name != p.Name {
				kept = append(kept, name)
			}
		}
		cfg[config.PluginsKey] = kept
	}

	k.Filters().ClearAll(scope)
	k.Actions().ClearAll(scope)

	k.Metrics().PluginDisabled()
	k.Logger().Info("plugin disabled", zap.String("plugin", p.Name))
	return nil
}

// loadConfig registers the three configuration-layer contributions.
// Keys under "add" and "defaults" are namespaced by the uppercased
// plugin name; "set" keys are not and may collide across plugins.
func loadConfig(k *hooks.Kernel, scope hooks.Scope, plugin string, m *Manifest) error {
	add, set, defaults, err := m.configSections(plugin)
	if err != nil {
		return err
	}
	prefix := strings.ToUpper(plugin) + "_"

	k.Filters().AddIn(scope, config.FilterBase, func(value any, _ ...any) (any, error) {
		cfg, err := types.Cast(value)
		if err != nil {
			return nil, err
		}
		for key, v := range add {
			if _, ok := cfg[prefix+key]; !ok {
				cfg[prefix+key] = v
			}
		}
		for key, v := range set {
			cfg[key] = v
		}
		return cfg, nil
	})

	k.Filters().AddIn(scope, config.FilterDefaults, func(value any, _ ...any) (any, error) {
		cfg, err := types.Cast(value)
		if err != nil {
			return nil, err
		}
		for key, v := range defaults {
			if _, ok := cfg[prefix+key]; !ok {
				cfg[prefix+key] = v
			}
		}
		return cfg, nil
	})

	k.Filters().AddIn(scope, config.FilterOverrides, func(value any, _ ...any) (any, error) {
		cfg, err := types.Cast(value)
		if err != nil {
			return nil, err
		}
		for key, v := range set {
			cfg[key] = v
		}
		return cfg, nil
	})

	return nil
}

// loadPatches registers a transform that appends this plugin's text for
// the queried patch name, or passes the list through unchanged.
func loadPatches(k *hooks.Kernel, scope hooks.Scope, plugin string, m *Manifest) error {
	patches, err := m.patchMap(plugin)
	if err != nil {
		return err
	}

	k.Filters().AddIn(scope, FilterPatches, func(value any, args ...any) (any, error) {
		list, name, err := listQuery(FilterPatches, value, args)
		if err != nil {
			return nil, err
		}
		if content, ok := patches[name]; ok {
			list = append(list, Patch{Plugin: plugin, Content: content})
		}
		return list, nil
	})
	return nil
}

// loadHooks registers a transform that appends this plugin's value for
// the queried hook name.
func loadHooks(k *hooks.Kernel, scope hooks.Scope, plugin string, m *Manifest) error {
	hookValues, err := m.hookMap(plugin)
	if err != nil {
		return err
	}

	k.Filters().AddIn(scope, FilterHooks, func(value any, args ...any) (any, error) {
		list, name, err := listQuery(FilterHooks, value, args)
		if err != nil {
			return nil, err
		}
		if hook, ok := hookValues[name]; ok {
			list = append(list, HookEntry{Plugin: plugin, Hook: hook})
		}
		return list, nil
	})
	return nil
}

// loadTemplatesRoot registers the template root and the fixed "apps"
// and "build" subdirectory mappings rendered under the plugins folder.
func loadTemplatesRoot(k *hooks.Kernel, scope hooks.Scope, plugin string, m *Manifest) error {
	root, err := m.templatesRoot(plugin)
	if err != nil {
		return err
	}
	if root == "" {
		return nil
	}

	k.Filters().AddItemsIn(scope, FilterTemplateRoots, root)
	k.Filters().AddItemsIn(scope, FilterTemplateTargets,
		TemplateTarget{Src: path.Join(plugin, "apps"), Dst: "plugins"},
		TemplateTarget{Src: path.Join(plugin, "build"), Dst: "plugins"},
	)
	return nil
}

// loadCommand collects the plugin's CLI command, forcing its name to
// the plugin name. Last writer wins if two plugins collide.
func loadCommand(k *hooks.Kernel, scope hooks.Scope, plugin string, m *Manifest) error {
	if m.Command == nil {
		return nil
	}
	cmd := *m.Command
	cmd.Name = plugin
	k.Filters().AddItemsIn(scope, FilterCommands, &cmd)
	return nil
}

// listQuery unpacks the (slice value, queried name) pair shared by the
// patch and hook pipelines.
func listQuery(filter string, value any, args []any) ([]any, string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, "", types.NewError(types.ErrPipeline,
			"filter %q: expected slice value, got %T", filter, value)
	}
	if len(args) == 0 {
		return nil, "", types.NewError(types.ErrPipeline,
			"filter %q: missing name argument", filter)
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, "", types.NewError(types.ErrPipeline,
			"filter %q: expected string name argument, got %T", filter, args[0])
	}
	return list, name, nil
}

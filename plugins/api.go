package plugins

import (
	"sort"

	"github.com/opsmith-io/opsmith/config"
	"github.com/opsmith-io/opsmith/hooks"
	"github.com/opsmith-io/opsmith/types"
)

// Installed returns every installed plugin descriptor, sorted by name.
// Plugins sharing a name all appear.
func Installed(k *hooks.Kernel) ([]*Plugin, error) {
	return pluginList(k, FilterInstalled)
}

// Enabled returns every enabled plugin descriptor, sorted by name, not
// deduplicated: if two plugins share a name, both appear.
func Enabled(k *hooks.Kernel) ([]*Plugin, error) {
	return pluginList(k, FilterEnabled)
}

// IsInstalled reports whether any installed plugin has the given name.
func IsInstalled(k *hooks.Kernel, name string) bool {
	installed, err := Installed(k)
	if err != nil {
		return false
	}
	for _, p := range installed {
		if p.Name == name {
			return true
		}
	}
	return false
}

// IsEnabled reports whether any enabled plugin has the given name.
func IsEnabled(k *hooks.Kernel, name string) bool {
	_, err := GetEnabled(k, name)
	return err == nil
}

// GetEnabled returns the first enabled plugin with the given name.
func GetEnabled(k *hooks.Kernel, name string) (*Plugin, error) {
	enabled, err := Enabled(k)
	if err != nil {
		return nil, err
	}
	for _, p := range enabled {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, types.NewError(types.ErrNotFound,
		"enabled plugin %q could not be found", name).WithPlugin(name)
}

// Enable adds a plugin name to the PLUGINS list in cfg. The name must
// belong to an installed plugin. The list stays sorted ascending and
// deduplicated: adding a present name is a no-op, while two installed
// plugins sharing the name each enable independently at config load.
func Enable(k *hooks.Kernel, cfg types.Config, name string) error {
	if !IsInstalled(k, name) {
		return types.NewError(types.ErrNotInstalled,
			"plugin %q is not installed", name).WithPlugin(name)
	}

	names, err := config.EnabledNames(cfg)
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	names = append(names, name)
	sort.Strings(names)
	cfg[config.PluginsKey] = names
	return nil
}

// PatchesFor returns every enabled plugin's contribution to the named
// patch, in enable order.
func PatchesFor(k *hooks.Kernel, name string) ([]Patch, error) {
	v, err := k.Filters().Apply(FilterPatches, []any{}, name)
	if err != nil {
		return nil, err
	}
	list := v.([]any)
	patches := make([]Patch, 0, len(list))
	for _, item := range list {
		if patch, ok := item.(Patch); ok {
			patches = append(patches, patch)
		}
	}
	return patches, nil
}

// HooksFor returns every enabled plugin's contribution to the named
// hook, in enable order.
func HooksFor(k *hooks.Kernel, name string) ([]HookEntry, error) {
	v, err := k.Filters().Apply(FilterHooks, []any{}, name)
	if err != nil {
		return nil, err
	}
	list := v.([]any)
	entries := make([]HookEntry, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(HookEntry); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// TemplateRoots returns every enabled plugin's template root, in enable
// order.
func TemplateRoots(k *hooks.Kernel) ([]string, error) {
	v, err := k.Filters().Apply(FilterTemplateRoots, []any{})
	if err != nil {
		return nil, err
	}
	list := v.([]any)
	roots := make([]string, 0, len(list))
	for _, item := range list {
		if root, ok := item.(string); ok {
			roots = append(roots, root)
		}
	}
	return roots, nil
}

// TemplateTargets returns the (src, dst) render mappings contributed by
// enabled plugins.
func TemplateTargets(k *hooks.Kernel) ([]TemplateTarget, error) {
	v, err := k.Filters().Apply(FilterTemplateTargets, []any{})
	if err != nil {
		return nil, err
	}
	list := v.([]any)
	targets := make([]TemplateTarget, 0, len(list))
	for _, item := range list {
		if target, ok := item.(TemplateTarget); ok {
			targets = append(targets, target)
		}
	}
	return targets, nil
}

// Commands returns the CLI commands contributed by enabled plugins, in
// enable order, each renamed to its plugin.
func Commands(k *hooks.Kernel) ([]*Command, error) {
	v, err := k.Filters().Apply(FilterCommands, []any{})
	if err != nil {
		return nil, err
	}
	list := v.([]any)
	commands := make([]*Command, 0, len(list))
	for _, item := range list {
		if cmd, ok := item.(*Command); ok {
			commands = append(commands, cmd)
		}
	}
	return commands, nil
}

func pluginList(k *hooks.Kernel, filter string) ([]*Plugin, error) {
	v, err := k.Filters().Apply(filter, []any{})
	if err != nil {
		return nil, err
	}
	list := v.([]any)
	out := make([]*Plugin, 0, len(list))
	for _, item := range list {
		if p, ok := item.(*Plugin); ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

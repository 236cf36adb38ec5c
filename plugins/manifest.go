package plugins

import (
	"context"

	"github.com/opsmith-io/opsmith/types"
)

// Manifest is the contribution record a plugin's loader resolves to.
// Every field is optional; absence means "no contribution". The
// Config, Patches, Hooks, and Templates fields hold loosely-typed
// decoded data — shape validation happens once per field, inside the
// enable loaders, so the error can name the plugin and the offending
// entry.
type Manifest struct {
	// Config holds the "add"/"set"/"defaults" sub-mappings.
	Config any
	// Patches maps patch name to patch text.
	Patches any
	// Hooks maps hook name to a task list or a string mapping.
	Hooks any
	// Templates is the plugin's template root path.
	Templates any
	// Command is an optional CLI command. Its registered name is forced
	// to the plugin name.
	Command *Command
}

// Command is the CLI command abstraction consumed opaquely by the
// kernel: it is renamed and collected, never parsed or dispatched here.
type Command struct {
	Name  string
	Usage string
	Run   func(ctx context.Context, args []string) error
}

// Hook is a single lifecycle hook value: either an ordered task
// sequence or a string-to-string mapping, never both.
type Hook struct {
	Sequence []string
	Mapping  map[string]string
}

// Patch is one plugin's contribution to a named template patch.
type Patch struct {
	Plugin  string
	Content string
}

// HookEntry is one plugin's contribution to a named hook.
type HookEntry struct {
	Plugin string
	Hook   Hook
}

// configSections validates the Config field and splits it into the
// three recognized sub-mappings. Unrecognized sub-keys are validated
// for shape and otherwise ignored.
func (m *Manifest) configSections(plugin string) (add, set, defaults types.Config, err error) {
	add, set, defaults = types.Config{}, types.Config{}, types.Config{}
	if m.Config == nil {
		return add, set, defaults, nil
	}

	cfg, ok := asStringMap(m.Config)
	if !ok {
		return nil, nil, nil, types.NewError(types.ErrValidation,
			"invalid config in plugin %q: expected mapping, got %T", plugin, m.Config).WithPlugin(plugin)
	}
	for name, sub := range cfg {
		if _, ok := asStringMap(sub); !ok {
			return nil, nil, nil, types.NewError(types.ErrValidation,
				"invalid config entry %q in plugin %q: expected mapping, got %T", name, plugin, sub).WithPlugin(plugin)
		}
	}

	if sub, ok := asStringMap(cfg["add"]); ok {
		add = sub
	}
	if sub, ok := asStringMap(cfg["set"]); ok {
		set = sub
	}
	if sub, ok := asStringMap(cfg["defaults"]); ok {
		defaults = sub
	}
	return add, set, defaults, nil
}

// patchMap validates the Patches field as string -> string.
func (m *Manifest) patchMap(plugin string) (map[string]string, error) {
	if m.Patches == nil {
		return map[string]string{}, nil
	}

	switch patches := m.Patches.(type) {
	case map[string]string:
		return patches, nil
	case map[string]any:
		out := make(map[string]string, len(patches))
		for name, content := range patches {
			text, ok := content.(string)
			if !ok {
				return nil, types.NewError(types.ErrValidation,
					"invalid patch %q in plugin %q: expected string, got %T", name, plugin, content).WithPlugin(plugin)
			}
			out[name] = text
		}
		return out, nil
	default:
		return nil, types.NewError(types.ErrValidation,
			"invalid patches in plugin %q: expected mapping, got %T", plugin, m.Patches).WithPlugin(plugin)
	}
}

// hookMap validates the Hooks field as string -> (task list | string
// mapping) and normalizes each value into a Hook.
func (m *Manifest) hookMap(plugin string) (map[string]Hook, error) {
	if m.Hooks == nil {
		return map[string]Hook{}, nil
	}

	raw, ok := asStringMap(m.Hooks)
	if !ok {
		return nil, types.NewError(types.ErrValidation,
			"invalid hooks in plugin %q: expected mapping, got %T", plugin, m.Hooks).WithPlugin(plugin)
	}

	out := make(map[string]Hook, len(raw))
	for name, value := range raw {
		hook, err := asHook(plugin, name, value)
		if err != nil {
			return nil, err
		}
		out[name] = hook
	}
	return out, nil
}

// templatesRoot validates the Templates field as a path string.
func (m *Manifest) templatesRoot(plugin string) (string, error) {
	if m.Templates == nil {
		return "", nil
	}
	root, ok := m.Templates.(string)
	if !ok {
		return "", types.NewError(types.ErrValidation,
			"invalid templates in plugin %q: expected string, got %T", plugin, m.Templates).WithPlugin(plugin)
	}
	return root, nil
}

func asStringMap(v any) (types.Config, bool) {
	switch m := v.(type) {
	case types.Config:
		return m, true
	case map[string]any:
		return types.Config(m), true
	default:
		return nil, false
	}
}

func asHook(plugin, name string, value any) (Hook, error) {
	switch v := value.(type) {
	case []string:
		return Hook{Sequence: v}, nil
	case []any:
		tasks := make([]string, 0, len(v))
		for _, item := range v {
			task, ok := item.(string)
			if !ok {
				return Hook{}, types.NewError(types.ErrValidation,
					"invalid task in hook %q from plugin %q: expected string, got %T", name, plugin, item).WithPlugin(plugin)
			}
			tasks = append(tasks, task)
		}
		return Hook{Sequence: tasks}, nil
	case map[string]string:
		return Hook{Mapping: v}, nil
	case map[string]any:
		mapping := make(map[string]string, len(v))
		for key, item := range v {
			text, ok := item.(string)
			if !ok {
				return Hook{}, types.NewError(types.ErrValidation,
					"invalid hook %q in plugin %q: only string -> string entries are supported", name, plugin).WithPlugin(plugin)
			}
			mapping[key] = text
		}
		return Hook{Mapping: mapping}, nil
	default:
		return Hook{}, types.NewError(types.ErrValidation,
			"invalid hook %q in plugin %q: expected list or mapping, got %T", name, plugin, value).WithPlugin(plugin)
	}
}

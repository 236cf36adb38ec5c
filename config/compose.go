package config

import (
	"github.com/opsmith-io/opsmith/hooks"
	"github.com/opsmith-io/opsmith/types"
)

// PluginsKey is the reserved config key holding the ordered list of
// enabled plugin names. The list is deduplicated and kept sorted
// ascending; the underlying plugin objects are not deduplicated.
const PluginsKey = "PLUGINS"

// Well-known configuration pipelines.
const (
	// FilterBase accumulates concrete values: "add" entries under the
	// plugin's <NAME>_ prefix (first writer wins) and "set" entries
	// unprefixed (last writer wins within a fold).
	FilterBase = "config:base"
	// FilterDefaults accumulates prefixed template-valued fallbacks;
	// defaults never overwrite a key already present.
	FilterDefaults = "config:defaults"
	// FilterOverrides accumulates each plugin's "set" entries. Queried
	// scoped to one plugin during disable, to recover exactly which
	// keys that plugin touched.
	FilterOverrides = "config:overrides"
)

// Base folds the config:base pipeline over an empty map, yielding every
// enabled plugin's concrete contributions.
func Base(k *hooks.Kernel) (types.Config, error) {
	return fold(k, hooks.NoScope, FilterBase)
}

// Defaults folds the config:defaults pipeline over an empty map.
func Defaults(k *hooks.Kernel) (types.Config, error) {
	return fold(k, hooks.NoScope, FilterDefaults)
}

// Overrides folds the config:overrides pipeline restricted to one
// scope. Disable uses it to find the keys a single plugin's "set"
// contribution introduced.
func Overrides(k *hooks.Kernel, scope hooks.Scope) (types.Config, error) {
	return fold(k, scope, FilterOverrides)
}

// UpdateWithBase merges the base layer into cfg. User-set keys always
// win: a key already present in cfg is left untouched.
func UpdateWithBase(k *hooks.Kernel, cfg types.Config) error {
	base, err := Base(k)
	if err != nil {
		return err
	}
	merge(cfg, base)
	return nil
}

// UpdateWithDefaults merges the defaults layer into cfg without
// overwriting any present key.
func UpdateWithDefaults(k *hooks.Kernel, cfg types.Config) error {
	defaults, err := Defaults(k)
	if err != nil {
		return err
	}
	merge(cfg, defaults)
	return nil
}

// EnabledNames reads the PLUGINS list from cfg, tolerating the []any
// shape produced by YAML decoding. A missing key yields an empty list.
func EnabledNames(cfg types.Config) ([]string, error) {
	return cfg.StringSlice(PluginsKey)
}

func fold(k *hooks.Kernel, scope hooks.Scope, name string) (types.Config, error) {
	v, err := k.Filters().ApplyScoped(scope, name, types.Config{})
	if err != nil {
		return nil, err
	}
	return types.Cast(v)
}

func merge(dst, src types.Config) {
	for key, value := range src {
		if _, ok := dst[key]; !ok {
			dst[key] = value
		}
	}
}

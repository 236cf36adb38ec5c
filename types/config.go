package types

import "fmt"

// Config is a flat mapping from setting name to value. Values are one of:
// string, number, bool, nil, list, or map — the YAML scalar/collection
// kinds. The persisted user config is owned end to end by the caller;
// this type only defines the shared shape.
type Config map[string]any

// Cast validates that an arbitrary decoded value is a Config.
func Cast(v any) (Config, error) {
	switch m := v.(type) {
	case Config:
		return m, nil
	case map[string]any:
		return Config(m), nil
	default:
		return nil, NewError(ErrValidation, "invalid configuration: expected mapping, got %T", v)
	}
}

// Clone returns a shallow copy of the config. List and map values are
// shared with the original.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// StringSlice reads a list-of-strings key, tolerating the []any shape
// produced by YAML decoding. A missing key yields an empty slice.
func (c Config) StringSlice(key string) ([]string, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, NewError(ErrValidation,
					"invalid config entry %q: expected string element, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, NewError(ErrValidation,
			"invalid config entry %q: expected list, got %T", key, v)
	}
}

// String reads a string-valued key.
func (c Config) String(key string) (string, error) {
	v, ok := c[key]
	if !ok {
		return "", fmt.Errorf("config entry %q not found", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", NewError(ErrValidation,
			"invalid config entry %q: expected string, got %T", key, v)
	}
	return s, nil
}

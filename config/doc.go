// Package config composes the layered configuration that plugins feed
// into. Three filter pipelines carry the layers: config:base holds
// concrete values, config:defaults holds lazily-rendered fallbacks, and
// config:overrides records the values each plugin insists on. The
// persisted user config itself is owned by the caller; this package
// only folds plugin contributions and merges them in.
package config

// Package hooks provides the extension kernel: named filter and action
// pipelines with scope-tagged registrations, plus the scope stack used
// to bulk-clear a contributor's entries in one call.
//
// A Filter is a named, ordered pipeline of value transforms folded
// left-to-right over an initial value. An Action is a named, ordered
// pipeline of side-effecting callbacks, optionally fire-once. Every
// registration is tagged with a Scope so that all entries from one
// contributor (typically a plugin) can be removed together.
//
// Usage:
//
//	k := hooks.New(hooks.WithLogger(logger))
//	k.Filters().Add("config:base", myTransform)
//	v, err := k.Filters().Apply("config:base", types.Config{})
//	k.Filters().ClearAll("plugins:myplugin")
package hooks

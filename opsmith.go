// Package opsmith provides a top-level convenience entry point for
// creating the extension kernel with minimal boilerplate.
//
// Usage:
//
//	import "github.com/opsmith-io/opsmith"
//
//	k := opsmith.New(opsmith.WithLogger(logger))
//	reg := opsmith.NewRegistry(k, opsmith.WithSources(opsmith.NewFileSource("", logger)))
//
// This is a thin wrapper around the hooks and plugins packages; both
// produce identical results. Use this package when you prefer the
// shorter import path.
package opsmith

import (
	"github.com/opsmith-io/opsmith/hooks"
	"github.com/opsmith-io/opsmith/plugins"
)

// Option configures the kernel created by [New].
type Option = hooks.Option

// New creates a [hooks.Kernel].
func New(opts ...Option) *hooks.Kernel {
	return hooks.New(opts...)
}

// Re-export the main constructors so callers never need to import the
// subpackages for common wiring.

// WithLogger sets a custom zap logger on the kernel.
var WithLogger = hooks.WithLogger

// WithMetrics attaches a metrics collector to the kernel.
var WithMetrics = hooks.WithMetrics

// NewRegistry creates a plugin registry bound to a kernel.
var NewRegistry = plugins.NewRegistry

// WithSources sets the plugin sources scanned at install time.
var WithSources = plugins.WithSources

// NewStaticSource creates a source for code-registered plugins.
var NewStaticSource = plugins.NewStaticSource

// NewFileSource creates a source scanning declarative plugin files.
var NewFileSource = plugins.NewFileSource

// NewPackageSource creates a source over an entry-point enumerator.
var NewPackageSource = plugins.NewPackageSource

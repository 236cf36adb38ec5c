package hooks

import (
	"go.uber.org/zap"

	"github.com/opsmith-io/opsmith/internal/metrics"
)

// Kernel owns the two pipeline registries and the ambient scope stack.
// It replaces process-wide singletons: collaborators receive the kernel
// by reference and never touch shared globals. All state is mutated in
// place and assumed single-writer (one CLI invocation per process).
type Kernel struct {
	logger  *zap.Logger
	metrics *metrics.Collector

	stack   *scopeStack
	filters *Filters
	actions *Actions
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the kernel logger. A nil logger is replaced by a nop.
func WithLogger(logger *zap.Logger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}

// WithMetrics attaches a metrics collector. The kernel works without
// one; a nil collector records nothing.
func WithMetrics(collector *metrics.Collector) Option {
	return func(k *Kernel) {
		k.metrics = collector
	}
}

// New creates an extension kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = zap.NewNop()
	}

	k.stack = &scopeStack{}
	k.filters = newFilters(k.stack, k.logger, k.metrics)
	k.actions = newActions(k.stack, k.logger, k.metrics)
	return k
}

// Filters returns the filter registry.
func (k *Kernel) Filters() *Filters {
	return k.filters
}

// Actions returns the action registry.
func (k *Kernel) Actions() *Actions {
	return k.actions
}

// Enter pushes a scope nested under the current one and returns the
// exit function, which callers must defer so the pop happens even on
// error.
func (k *Kernel) Enter(name string) func() {
	return k.stack.enter(name)
}

// Current returns the scope at the top of the ambient stack, or NoScope
// when no scope is active.
func (k *Kernel) Current() Scope {
	return k.stack.current()
}

// Logger returns the kernel logger.
func (k *Kernel) Logger() *zap.Logger {
	return k.logger
}

// Metrics returns the attached collector, which may be nil.
func (k *Kernel) Metrics() *metrics.Collector {
	return k.metrics
}

// Reset clears both registries, the fire-once record, and the scope
// stack. Tests rely on this between cases; forgetting it causes
// cross-test leakage.
func (k *Kernel) Reset() {
	k.filters.reset()
	k.actions.reset()
	k.stack.reset()
}

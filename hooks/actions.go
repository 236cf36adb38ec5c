package hooks

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsmith-io/opsmith/internal/metrics"
	"github.com/opsmith-io/opsmith/types"
)

// ActionFunc is a side-effecting callback. No value is threaded between
// callbacks of the same action.
type ActionFunc func(args ...any) error

type actionEntry struct {
	id    string
	scope Scope
	fn    ActionFunc
}

// Actions is the registry of named side-effect pipelines. It mirrors
// the filter registry's scoping discipline and additionally tracks
// which action names have completed at least once, for fire-once
// dispatch.
type Actions struct {
	mu        sync.RWMutex
	pipelines map[string][]actionEntry
	done      map[string]struct{}

	stack   *scopeStack
	logger  *zap.Logger
	metrics *metrics.Collector
}

func newActions(stack *scopeStack, logger *zap.Logger, collector *metrics.Collector) *Actions {
	return &Actions{
		pipelines: make(map[string][]actionEntry),
		done:      make(map[string]struct{}),
		stack:     stack,
		logger:    logger.With(zap.String("component", "actions")),
		metrics:   collector,
	}
}

// Add appends fn to the named action, tagged with the current ambient scope.
func (a *Actions) Add(name string, fn ActionFunc) {
	a.AddIn(a.stack.current(), name, fn)
}

// AddIn appends fn to the named action under an explicit scope.
func (a *Actions) AddIn(scope Scope, name string, fn ActionFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pipelines[name] = append(a.pipelines[name], actionEntry{
		id:    uuid.NewString(),
		scope: scope,
		fn:    fn,
	})
}

// Do invokes every registered callback in registration order. The first
// failing callback aborts the remainder of the invocation; callers that
// need all subscribers notified on partial failure must wrap their own
// callbacks. The name is marked done only after a completed dispatch.
func (a *Actions) Do(name string, args ...any) error {
	return a.DoScoped(NoScope, name, args...)
}

// DoScoped invokes only the callbacks visible under the query scope.
func (a *Actions) DoScoped(scope Scope, name string, args ...any) error {
	a.mu.RLock()
	entries := make([]actionEntry, len(a.pipelines[name]))
	copy(entries, a.pipelines[name])
	a.mu.RUnlock()

	a.metrics.ActionDispatched(name)

	for _, entry := range entries {
		if !entry.scope.visibleTo(scope) {
			continue
		}
		if err := entry.fn(args...); err != nil {
			a.metrics.PipelineError("action", name)
			a.logger.Error("action callback failed",
				zap.String("action", name),
				zap.String("entry", entry.id),
				zap.String("scope", string(entry.scope)),
				zap.Error(err))
			return types.NewError(types.ErrPipeline,
				"action %q: callback %s failed", name, entry.id).WithCause(err)
		}
	}

	a.mu.Lock()
	a.done[name] = struct{}{}
	a.mu.Unlock()
	return nil
}

// DoOnce invokes Do only if this name has never completed a dispatch in
// this process. The first invocation's arguments win; later calls are
// no-ops regardless of their arguments.
func (a *Actions) DoOnce(name string, args ...any) error {
	if a.Done(name) {
		return nil
	}
	return a.Do(name, args...)
}

// Done reports whether the named action has completed at least once.
func (a *Actions) Done(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.done[name]
	return ok
}

// Clear removes every callback of the named action registered at or
// under the given scope.
func (a *Actions) Clear(name string, scope Scope) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pipelines[name] = dropActionsWithin(a.pipelines[name], scope)
}

// ClearAll removes matching callbacks from every action.
func (a *Actions) ClearAll(scope Scope) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for name, entries := range a.pipelines {
		a.pipelines[name] = dropActionsWithin(entries, scope)
	}
}

// Count returns the number of callbacks currently registered on an action.
func (a *Actions) Count(name string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.pipelines[name])
}

func (a *Actions) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pipelines = make(map[string][]actionEntry)
	a.done = make(map[string]struct{})
}

func dropActionsWithin(entries []actionEntry, scope Scope) []actionEntry {
	kept := entries[:0:0]
	for _, entry := range entries {
		if !entry.scope.within(scope) {
			kept = append(kept, entry)
		}
	}
	return kept
}

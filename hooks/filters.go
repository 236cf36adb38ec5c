package hooks

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsmith-io/opsmith/internal/metrics"
	"github.com/opsmith-io/opsmith/types"
)

// FilterFunc transforms a pipeline value. The return value of each
// transform is passed as the value of the next one; extra arguments are
// passed through unchanged to every transform in the fold.
type FilterFunc func(value any, args ...any) (any, error)

type filterEntry struct {
	id    string
	scope Scope
	fn    FilterFunc
}

// Filters is the registry of named transform pipelines. Entries are
// append-only for the process lifetime except for explicit, scoped
// removal via Clear/ClearAll.
type Filters struct {
	mu        sync.RWMutex
	pipelines map[string][]filterEntry

	stack   *scopeStack
	logger  *zap.Logger
	metrics *metrics.Collector
}

func newFilters(stack *scopeStack, logger *zap.Logger, collector *metrics.Collector) *Filters {
	return &Filters{
		pipelines: make(map[string][]filterEntry),
		stack:     stack,
		logger:    logger.With(zap.String("component", "filters")),
		metrics:   collector,
	}
}

// Add appends fn to the named pipeline, tagged with the current ambient
// scope. Insertion order is significant and preserved forever.
func (f *Filters) Add(name string, fn FilterFunc) {
	f.AddIn(f.stack.current(), name, fn)
}

// AddIn appends fn to the named pipeline under an explicit scope.
// Lifecycle code threads its own scope here instead of relying on the
// ambient stack.
func (f *Filters) AddIn(scope Scope, name string, fn FilterFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pipelines[name] = append(f.pipelines[name], filterEntry{
		id:    uuid.NewString(),
		scope: scope,
		fn:    fn,
	})
}

// AddItem registers a transform that appends a single fixed item to a
// slice-valued pipeline.
func (f *Filters) AddItem(name string, item any) {
	f.AddItems(name, item)
}

// AddItems registers a transform that concatenates fixed items onto a
// slice-valued pipeline. The pipeline value must be a []any.
func (f *Filters) AddItems(name string, items ...any) {
	f.AddItemsIn(f.stack.current(), name, items...)
}

// AddItemsIn is AddItems under an explicit scope.
func (f *Filters) AddItemsIn(scope Scope, name string, items ...any) {
	f.AddIn(scope, name, func(value any, _ ...any) (any, error) {
		list, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected slice value, got %T", value)
		}
		out := make([]any, 0, len(list)+len(items))
		out = append(out, list...)
		out = append(out, items...)
		return out, nil
	})
}

// Apply folds every registered transform over value in registration
// order, passing args along. This is the apply-everywhere form: scoped
// entries are not filtered out.
func (f *Filters) Apply(name string, value any, args ...any) (any, error) {
	return f.ApplyScoped(NoScope, name, value, args...)
}

// ApplyScoped folds only the transforms visible under the query scope:
// unscoped entries plus entries whose registration scope equals scope
// exactly. Invisible entries are skipped, not removed.
//
// A failing transform aborts the fold; the error is logged with the
// filter name and the failing entry's identity, then returned.
func (f *Filters) ApplyScoped(scope Scope, name string, value any, args ...any) (any, error) {
	f.mu.RLock()
	entries := make([]filterEntry, len(f.pipelines[name]))
	copy(entries, f.pipelines[name])
	f.mu.RUnlock()

	f.metrics.FilterApplied(name)

	for _, entry := range entries {
		if !entry.scope.visibleTo(scope) {
			continue
		}
		next, err := entry.fn(value, args...)
		if err != nil {
			f.metrics.PipelineError("filter", name)
			f.logger.Error("filter transform failed",
				zap.String("filter", name),
				zap.String("entry", entry.id),
				zap.String("scope", string(entry.scope)),
				zap.Error(err))
			return nil, types.NewError(types.ErrPipeline,
				"filter %q: transform %s failed", name, entry.id).WithCause(err)
		}
		value = next
	}
	return value, nil
}

// Clear removes every entry of the named pipeline registered at or
// under the given scope. Used by plugin disable and test teardown only,
// never by normal operation.
func (f *Filters) Clear(name string, scope Scope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipelines[name] = dropWithin(f.pipelines[name], scope)
}

// ClearAll removes matching entries from every pipeline.
func (f *Filters) ClearAll(scope Scope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, entries := range f.pipelines {
		f.pipelines[name] = dropWithin(entries, scope)
	}
}

// Count returns the number of entries currently registered on a pipeline.
func (f *Filters) Count(name string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.pipelines[name])
}

func (f *Filters) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipelines = make(map[string][]filterEntry)
}

func dropWithin(entries []filterEntry, scope Scope) []filterEntry {
	kept := entries[:0:0]
	for _, entry := range entries {
		if !entry.scope.within(scope) {
			kept = append(kept, entry)
		}
	}
	return kept
}

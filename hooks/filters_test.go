package hooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmith-io/opsmith/types"
)

// --- helpers ---

func newTestKernel(t *testing.T) *Kernel {
	t.Helper()
	return New()
}

func increment(delta int) FilterFunc {
	return func(value any, _ ...any) (any, error) {
		return value.(int) + delta, nil
	}
}

// --- fold semantics ---

func TestFilters_ApplyFoldsInRegistrationOrder(t *testing.T) {
	k := newTestKernel(t)

	k.Filters().Add("tests:count", increment(1))
	k.Filters().Add("tests:count", func(value any, _ ...any) (any, error) {
		return value.(int) * 2, nil
	})

	v, err := k.Filters().Apply("tests:count", 1)
	require.NoError(t, err)
	// (1+1)*2, not 1*2+1: the fold respects insertion order.
	assert.Equal(t, 4, v)
}

func TestFilters_ApplyUnknownNameReturnsInitialValue(t *testing.T) {
	k := newTestKernel(t)

	v, err := k.Filters().Apply("tests:missing", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFilters_ApplyPassesExtraArguments(t *testing.T) {
	k := newTestKernel(t)

	k.Filters().Add("tests:args", func(value any, args ...any) (any, error) {
		require.Len(t, args, 2)
		return value.(string) + args[0].(string) + args[1].(string), nil
	})

	v, err := k.Filters().Apply("tests:args", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestFilters_AddItems(t *testing.T) {
	k := newTestKernel(t)

	k.Filters().Add("tests:sheep", func(value any, _ ...any) (any, error) {
		return append(value.([]any), 0), nil
	})
	k.Filters().AddItem("tests:sheep", 1)
	k.Filters().AddItem("tests:sheep", 2)
	k.Filters().AddItems("tests:sheep", 3, 4)

	v, err := k.Filters().Apply("tests:sheep", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2, 3, 4}, v)
}

func TestFilters_AddItemsRejectsNonSliceValue(t *testing.T) {
	k := newTestKernel(t)

	k.Filters().AddItem("tests:sheep", 1)

	_, err := k.Filters().Apply("tests:sheep", "not a slice")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrPipeline))
}

// --- error propagation ---

func TestFilters_TransformErrorAbortsFold(t *testing.T) {
	k := newTestKernel(t)
	boom := errors.New("boom")
	laterRan := false

	k.Filters().Add("tests:fail", func(any, ...any) (any, error) {
		return nil, boom
	})
	k.Filters().Add("tests:fail", func(value any, _ ...any) (any, error) {
		laterRan = true
		return value, nil
	})

	_, err := k.Filters().Apply("tests:fail", 0)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrPipeline))
	assert.ErrorIs(t, err, boom)
	assert.False(t, laterRan, "transforms after the failure must not run")
	assert.Contains(t, err.Error(), "tests:fail")
}

// --- scoping ---

func TestFilters_ScopedEntriesVisibility(t *testing.T) {
	k := newTestKernel(t)

	exit := k.Enter("testscope")
	k.Filters().AddItem("tests:sheep", 1)
	exit()
	k.Filters().AddItem("tests:sheep", 2)

	// Apply-everywhere sees both.
	v, err := k.Filters().Apply("tests:sheep", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, v)

	// A matching scoped query sees the scoped entry plus unscoped ones.
	v, err = k.Filters().ApplyScoped("testscope", "tests:sheep", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, v)

	// A different scoped query excludes the scoped entry.
	v, err = k.Filters().ApplyScoped("other", "tests:sheep", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{2}, v)
}

func TestFilters_ClearRemovesExactlyScopedEntries(t *testing.T) {
	k := newTestKernel(t)

	exit := k.Enter("testscope")
	k.Filters().AddItem("tests:sheep", 1)
	exit()
	k.Filters().AddItem("tests:sheep", 2)

	k.Filters().Clear("tests:sheep", "testscope")

	v, err := k.Filters().Apply("tests:sheep", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{2}, v)
}

func TestFilters_ClearAllMatchesSubtree(t *testing.T) {
	k := newTestKernel(t)

	k.Filters().AddItemsIn("plugins:p1", "tests:a", 1)
	k.Filters().AddItemsIn("plugins:p2", "tests:b", 2)
	k.Filters().AddItemsIn("other", "tests:a", 3)

	// Clearing the ancestor clears every plugins:* entry, nothing else.
	k.Filters().ClearAll("plugins")

	a, err := k.Filters().Apply("tests:a", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{3}, a)

	b, err := k.Filters().Apply("tests:b", []any{})
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestFilters_InvisibleEntriesAreSkippedNotRemoved(t *testing.T) {
	k := newTestKernel(t)

	k.Filters().AddItemsIn("c", "tests:sheep", 1)

	v, err := k.Filters().ApplyScoped("other", "tests:sheep", []any{})
	require.NoError(t, err)
	assert.Empty(t, v)

	// The entry is still registered and visible to the default query.
	v, err = k.Filters().Apply("tests:sheep", []any{})
	require.NoError(t, err)
	assert.Equal(t, []any{1}, v)
	assert.Equal(t, 1, k.Filters().Count("tests:sheep"))
}

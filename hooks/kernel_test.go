package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKernel_DefaultsToNopLogger(t *testing.T) {
	k := New()
	require.NotNil(t, k.Logger())
	assert.Nil(t, k.Metrics())
}

func TestKernel_WithLogger(t *testing.T) {
	logger := zap.NewExample()
	k := New(WithLogger(logger))
	assert.Same(t, logger, k.Logger())
}

func TestKernel_IndependentInstances(t *testing.T) {
	k1 := New()
	k2 := New()

	k1.Filters().AddItem("tests:sheep", 1)

	v, err := k2.Filters().Apply("tests:sheep", []any{})
	require.NoError(t, err)
	assert.Empty(t, v, "registrations must not leak across kernels")
}

func TestKernel_ResetClearsEverything(t *testing.T) {
	k := New()

	k.Filters().AddItem("tests:sheep", 1)
	k.Actions().Add("tests:action", func(...any) error { return nil })
	require.NoError(t, k.Actions().DoOnce("tests:action"))
	k.Enter("stale")

	k.Reset()

	v, err := k.Filters().Apply("tests:sheep", []any{})
	require.NoError(t, err)
	assert.Empty(t, v)
	assert.Equal(t, 0, k.Actions().Count("tests:action"))
	// The fire-once record is cleared too, so DoOnce runs again.
	assert.False(t, k.Actions().Done("tests:action"))
	assert.Equal(t, NoScope, k.Current())
}

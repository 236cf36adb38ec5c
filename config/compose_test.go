package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmith-io/opsmith/hooks"
	"github.com/opsmith-io/opsmith/types"
)

func TestBase_FoldsContributions(t *testing.T) {
	k := hooks.New()

	k.Filters().Add(FilterBase, func(value any, _ ...any) (any, error) {
		cfg, err := types.Cast(value)
		require.NoError(t, err)
		cfg["P1_PARAM"] = "one"
		return cfg, nil
	})
	k.Filters().Add(FilterBase, func(value any, _ ...any) (any, error) {
		cfg, err := types.Cast(value)
		require.NoError(t, err)
		cfg["SHARED"] = "two"
		return cfg, nil
	})

	base, err := Base(k)
	require.NoError(t, err)
	assert.Equal(t, types.Config{"P1_PARAM": "one", "SHARED": "two"}, base)
}

func TestBase_EmptyPipeline(t *testing.T) {
	k := hooks.New()

	base, err := Base(k)
	require.NoError(t, err)
	assert.Empty(t, base)
}

func TestUpdateWithBase_UserKeysWin(t *testing.T) {
	k := hooks.New()
	k.Filters().Add(FilterBase, func(value any, _ ...any) (any, error) {
		cfg, _ := types.Cast(value)
		cfg["PARAM"] = "plugin"
		cfg["OTHER"] = "kept"
		return cfg, nil
	})

	cfg := types.Config{"PARAM": "user"}
	require.NoError(t, UpdateWithBase(k, cfg))

	assert.Equal(t, "user", cfg["PARAM"])
	assert.Equal(t, "kept", cfg["OTHER"])
}

func TestUpdateWithDefaults_NeverOverwrites(t *testing.T) {
	k := hooks.New()
	k.Filters().Add(FilterDefaults, func(value any, _ ...any) (any, error) {
		cfg, _ := types.Cast(value)
		cfg["P1_HOST"] = "{{ HOST }}"
		cfg["P1_PORT"] = 8080
		return cfg, nil
	})

	cfg := types.Config{"P1_HOST": "example.com"}
	require.NoError(t, UpdateWithDefaults(k, cfg))

	assert.Equal(t, "example.com", cfg["P1_HOST"])
	assert.Equal(t, 8080, cfg["P1_PORT"])
}

func TestOverrides_ScopedReplay(t *testing.T) {
	k := hooks.New()

	exit := k.Enter("plugins")
	exitP1 := k.Enter("p1")
	k.Filters().Add(FilterOverrides, func(value any, _ ...any) (any, error) {
		cfg, _ := types.Cast(value)
		cfg["SHARED"] = "p1"
		return cfg, nil
	})
	exitP1()
	exitP2 := k.Enter("p2")
	k.Filters().Add(FilterOverrides, func(value any, _ ...any) (any, error) {
		cfg, _ := types.Cast(value)
		cfg["SHARED"] = "p2"
		cfg["ONLY_P2"] = true
		return cfg, nil
	})
	exitP2()
	exit()

	// A scoped query replays exactly one plugin's set entries.
	got, err := Overrides(k, "plugins:p1")
	require.NoError(t, err)
	assert.Equal(t, types.Config{"SHARED": "p1"}, got)

	got, err = Overrides(k, "plugins:p2")
	require.NoError(t, err)
	assert.Equal(t, types.Config{"SHARED": "p2", "ONLY_P2": true}, got)
}

func TestEnabledNames(t *testing.T) {
	names, err := EnabledNames(types.Config{PluginsKey: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	// YAML decoding produces []any; tolerate it.
	names, err = EnabledNames(types.Config{PluginsKey: []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	names, err = EnabledNames(types.Config{})
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = EnabledNames(types.Config{PluginsKey: "not-a-list"})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrValidation))
}

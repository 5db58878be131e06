package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
)

func twoSprings() *schema.Config {
	return demoSchema().Add("bounce", schema.Spring{Value: schema.PhysicsSpring(300, 10, 1)})
}

func TestSpringModeDefaultsToSimple(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", twoSprings()))

	mode, err := s.GetSpringMode("p", "motion")
	require.NoError(t, err)
	assert.Equal(t, schema.SpringSimple, mode)
}

func TestSpringModeIsPerPath(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", twoSprings()))
	before, _ := s.GetValues("p")

	var full, changed int
	_, err := s.Subscribe("p", func() { full++ })
	require.NoError(t, err)
	_, err = s.SubscribeChange("p", func(map[string]schema.Value) { changed++ })
	require.NoError(t, err)

	require.NoError(t, s.UpdateSpringMode("p", "motion", schema.SpringAdvanced))

	mode, _ := s.GetSpringMode("p", "motion")
	assert.Equal(t, schema.SpringAdvanced, mode)
	other, _ := s.GetSpringMode("p", "bounce")
	assert.Equal(t, schema.SpringSimple, other)

	after, _ := s.GetValues("p")
	assert.Equal(t, before, after, "switching modes keeps stored values by default")
	assert.Equal(t, 1, full)
	assert.Zero(t, changed)
}

func TestSpringModeErrors(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	_, err := s.GetSpringMode("p", "speed")
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	_, err = s.GetSpringMode("p", "nope")
	assert.True(t, errors.Is(err, errors.ErrCodePathNotFound))
	_, err = s.GetSpringMode("missing", "motion")
	assert.True(t, errors.Is(err, errors.ErrCodePanelNotFound))

	err = s.UpdateSpringMode("p", "speed", schema.SpringAdvanced)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	err = s.UpdateSpringMode("p", "motion", "bouncy")
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}

func TestSpringModeNotInPresets(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))
	id, err := s.SavePreset("p", "a")
	require.NoError(t, err)

	require.NoError(t, s.UpdateSpringMode("p", "motion", schema.SpringAdvanced))
	require.NoError(t, s.LoadPreset("p", id))

	mode, _ := s.GetSpringMode("p", "motion")
	assert.Equal(t, schema.SpringAdvanced, mode)
	presets, _ := s.GetPresets("p")
	assert.NotContains(t, presets[0].Values, "motion.mode")
}

func TestSpringPruning(t *testing.T) {
	s := newTestStore(WithSpringPruning(true))
	require.NoError(t, s.RegisterPanel("p", "Panel", twoSprings()))

	var changes []map[string]schema.Value
	_, err := s.SubscribeChange("p", func(c map[string]schema.Value) { changes = append(changes, c) })
	require.NoError(t, err)

	require.NoError(t, s.UpdateSpringMode("p", "motion", schema.SpringAdvanced))
	v, _ := s.GetValue("p", "motion")
	want := schema.PhysicsSpring(schema.DefaultStiffness, schema.DefaultDamping, schema.DefaultMass)
	assert.Equal(t, want, v)
	require.Len(t, changes, 1)
	assert.Equal(t, map[string]schema.Value{"motion": want}, changes[0])

	other, _ := s.GetValue("p", "bounce")
	assert.Equal(t, schema.PhysicsSpring(300, 10, 1), other)

	// Already in the target mode: nothing to prune.
	require.NoError(t, s.UpdateSpringMode("p", "bounce", schema.SpringAdvanced))
	assert.Len(t, changes, 1)
}

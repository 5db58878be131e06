package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/state"
)

// failingBackend loads nothing and refuses every save.
type failingBackend struct{}

func (failingBackend) Load(string) (state.PanelRecord, error) { return state.PanelRecord{}, nil }
func (failingBackend) Save(string, state.PanelRecord) error   { return fmt.Errorf("disk full") }

func TestPresetRoundTrip(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	require.NoError(t, s.UpdateValue("p", "speed", 7))
	require.NoError(t, s.UpdateValue("p", "motion", schema.PhysicsSpring(200, 12, 1)))
	id, err := s.SavePreset("p", "snap")
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 1))
	require.NoError(t, s.UpdateValue("p", "enabled", false))
	require.NoError(t, s.UpdateValue("p", "motion", schema.SimpleSpring(1, 0)))
	require.NoError(t, s.LoadPreset("p", id))

	values, err := s.GetValues("p")
	require.NoError(t, err)
	assert.Equal(t, 7.0, values["speed"])
	assert.Equal(t, true, values["enabled"])
	assert.Equal(t, schema.PhysicsSpring(200, 12, 1), values["motion"])
}

func TestPresetSnapshotIsIsolated(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))
	id, err := s.SavePreset("p", "snap")
	require.NoError(t, err)

	presets, _ := s.GetPresets("p")
	presets[0].Values["speed"] = 9.0
	*presets[0].Values["motion"].(schema.SpringConfig).Bounce = 0.8

	require.NoError(t, s.UpdateValue("p", "speed", 2))
	require.NoError(t, s.LoadPreset("p", id))
	v, _ := s.GetValue("p", "speed")
	assert.Equal(t, 5.0, v)
	motion, _ := s.GetValue("p", "motion")
	assert.Equal(t, 0.1, *motion.(schema.SpringConfig).Bounce)
}

func TestLoadPresetNotifiesOnce(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))
	id, err := s.SavePreset("p", "snap")
	require.NoError(t, err)
	require.NoError(t, s.UpdateValue("p", "speed", 1))

	var full int
	var changes []map[string]schema.Value
	_, err = s.Subscribe("p", func() { full++ })
	require.NoError(t, err)
	_, err = s.SubscribeChange("p", func(c map[string]schema.Value) { changes = append(changes, c) })
	require.NoError(t, err)

	require.NoError(t, s.LoadPreset("p", id))
	assert.Equal(t, 1, full)
	require.Len(t, changes, 1)
	assert.Len(t, changes[0], 7, "the change carries every restored path")
	assert.Equal(t, 5.0, changes[0]["speed"])
}

func TestPresetListChangesNotify(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var full, changed int
	_, err := s.Subscribe("p", func() { full++ })
	require.NoError(t, err)
	_, err = s.SubscribeChange("p", func(map[string]schema.Value) { changed++ })
	require.NoError(t, err)

	id, err := s.SavePreset("p", "a")
	require.NoError(t, err)
	require.NoError(t, s.ClearActivePreset("p"))
	require.NoError(t, s.DeletePreset("p", id))

	assert.Equal(t, 3, full)
	assert.Zero(t, changed, "preset list changes leave values alone")
}

func TestDeletePreset(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	a, err := s.SavePreset("p", "a")
	require.NoError(t, err)
	b, err := s.SavePreset("p", "b")
	require.NoError(t, err)

	active, _ := s.GetActivePresetID("p")
	require.Equal(t, b, active)

	require.NoError(t, s.DeletePreset("p", a))
	active, _ = s.GetActivePresetID("p")
	assert.Equal(t, b, active, "deleting an inactive preset keeps the pointer")

	require.NoError(t, s.DeletePreset("p", b))
	active, _ = s.GetActivePresetID("p")
	assert.Empty(t, active, "deleting the active preset clears the pointer")

	presets, _ := s.GetPresets("p")
	assert.Empty(t, presets)
}

func TestClearActivePreset(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))
	require.NoError(t, s.UpdateValue("p", "speed", 9))
	_, err := s.SavePreset("p", "a")
	require.NoError(t, err)

	require.NoError(t, s.ClearActivePreset("p"))
	active, _ := s.GetActivePresetID("p")
	assert.Empty(t, active)
	v, _ := s.GetValue("p", "speed")
	assert.Equal(t, 9.0, v)
}

func TestPresetsAreOrdered(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))
	for _, name := range []string{"one", "two", "three"} {
		_, err := s.SavePreset("p", name)
		require.NoError(t, err)
	}

	presets, _ := s.GetPresets("p")
	var names []string
	for _, p := range presets {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)
}

func TestPersistenceFailureKeepsPreset(t *testing.T) {
	s := newTestStore(WithBackend(failingBackend{}))
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var full int
	_, err := s.Subscribe("p", func() { full++ })
	require.NoError(t, err)

	id, err := s.SavePreset("p", "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodePersistence))
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, full)

	presets, _ := s.GetPresets("p")
	require.Len(t, presets, 1, "the preset stays for this session")
	assert.Equal(t, id, presets[0].ID)

	require.NoError(t, s.UpdateValue("p", "speed", 1))
	err = s.LoadPreset("p", id)
	assert.True(t, errors.Is(err, errors.ErrCodePersistence))
	v, _ := s.GetValue("p", "speed")
	assert.Equal(t, 5.0, v, "the load applied before persisting failed")

	err = s.DeletePreset("p", id)
	assert.True(t, errors.Is(err, errors.ErrCodePersistence))
	presets, _ = s.GetPresets("p")
	assert.Empty(t, presets)
}

func TestPresetsPersistAcrossStores(t *testing.T) {
	backend := state.NewFileBackend(t.TempDir(), quietLogger())

	first := newTestStore(WithBackend(backend))
	require.NoError(t, first.RegisterPanel("a", "Demo", demoSchema()))
	require.NoError(t, first.UpdateValue("a", "speed", 8))
	require.NoError(t, first.UpdateValue("a", "motion", schema.PhysicsSpring(250, 15, 2)))
	id, err := first.SavePreset("a", "fast")
	require.NoError(t, err)

	second := newTestStore(WithBackend(backend))
	require.NoError(t, second.RegisterPanel("b", "Demo", demoSchema()))

	presets, err := second.GetPresets("b")
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, "fast", presets[0].Name)
	assert.Equal(t, 8.0, presets[0].Values["speed"], "numbers come back as float64")
	assert.Equal(t, schema.PhysicsSpring(250, 15, 2), presets[0].Values["motion"], "springs come back typed")

	active, _ := second.GetActivePresetID("b")
	assert.Equal(t, id, active)
	v, _ := second.GetValue("b", "speed")
	assert.Equal(t, 5.0, v, "registration starts from declared values")

	require.NoError(t, second.LoadPreset("b", id))
	v, _ = second.GetValue("b", "speed")
	assert.Equal(t, 8.0, v)
}

func TestPresetsPersistInSQLite(t *testing.T) {
	backend, err := state.OpenSQLite(filepath.Join(t.TempDir(), "presets.db"), quietLogger())
	require.NoError(t, err)
	defer backend.Close()

	first := newTestStore(WithBackend(backend))
	require.NoError(t, first.RegisterPanel("a", "Demo", demoSchema()))
	require.NoError(t, first.UpdateValue("a", "effects.tint", "#123456"))
	id, err := first.SavePreset("a", "tinted")
	require.NoError(t, err)

	second := newTestStore(WithBackend(backend))
	require.NoError(t, second.RegisterPanel("b", "Demo", demoSchema()))
	require.NoError(t, second.LoadPreset("b", id))
	v, _ := second.GetValue("b", "effects.tint")
	assert.Equal(t, "#123456", v)
}

func TestRestoreActivePreset(t *testing.T) {
	backend := state.NewMemoryBackend()
	first := newTestStore(WithBackend(backend))
	require.NoError(t, first.RegisterPanel("a", "Demo", demoSchema()))
	require.NoError(t, first.UpdateValue("a", "speed", 9))
	_, err := first.SavePreset("a", "nine")
	require.NoError(t, err)

	second := newTestStore(WithBackend(backend), WithRestoreActivePreset(true))
	require.NoError(t, second.RegisterPanel("b", "Demo", demoSchema()))
	v, _ := second.GetValue("b", "speed")
	assert.Equal(t, 9.0, v)
}

func TestLoadPresetAfterSchemaChange(t *testing.T) {
	backend := state.NewMemoryBackend()
	require.NoError(t, backend.Save("Demo", state.PanelRecord{
		Presets: []state.PresetRecord{{
			ID:   "old",
			Name: "old",
			Values: map[string]interface{}{
				"speed":   3,
				"removed": "gone",
			},
		}},
	}))

	s := newTestStore(WithBackend(backend))
	require.NoError(t, s.RegisterPanel("p", "Demo", demoSchema()))
	require.NoError(t, s.UpdateValue("p", "enabled", false))

	var changes []map[string]schema.Value
	_, err := s.SubscribeChange("p", func(c map[string]schema.Value) { changes = append(changes, c) })
	require.NoError(t, err)

	require.NoError(t, s.LoadPreset("p", "old"))
	v, _ := s.GetValue("p", "speed")
	assert.Equal(t, 3.0, v)
	enabled, _ := s.GetValue("p", "enabled")
	assert.Equal(t, false, enabled, "paths missing from the preset are left alone")
	require.Len(t, changes, 1)
	assert.Equal(t, map[string]schema.Value{"speed": 3.0}, changes[0])
}

func TestLoadPresetInvalidValueAborts(t *testing.T) {
	backend := state.NewMemoryBackend()
	require.NoError(t, backend.Save("Demo", state.PanelRecord{
		Presets: []state.PresetRecord{{
			ID:     "bad",
			Name:   "bad",
			Values: map[string]interface{}{"speed": 2.0, "easing": "not-an-option"},
		}},
	}))

	s := newTestStore(WithBackend(backend))
	require.NoError(t, s.RegisterPanel("p", "Demo", demoSchema()))

	var full int
	_, err := s.Subscribe("p", func() { full++ })
	require.NoError(t, err)

	err = s.LoadPreset("p", "bad")
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	v, _ := s.GetValue("p", "speed")
	assert.Equal(t, 5.0, v, "nothing is written when any value is invalid")
	active, _ := s.GetActivePresetID("p")
	assert.Empty(t, active)
	assert.Zero(t, full)
}

func TestStaleActivePresetIsDropped(t *testing.T) {
	backend := state.NewMemoryBackend()
	require.NoError(t, backend.Save("Demo", state.PanelRecord{ActivePresetID: "ghost"}))

	s := newTestStore(WithBackend(backend))
	require.NoError(t, s.RegisterPanel("p", "Demo", demoSchema()))
	active, _ := s.GetActivePresetID("p")
	assert.Empty(t, active)
}

func TestReloadPresets(t *testing.T) {
	backend := state.NewMemoryBackend()
	s := newTestStore(WithBackend(backend))
	require.NoError(t, s.RegisterPanel("p", "Demo", demoSchema()))
	_, err := s.SavePreset("p", "mine")
	require.NoError(t, err)

	changed, err := s.ReloadPresets("p")
	require.NoError(t, err)
	assert.False(t, changed, "reloading our own write changes nothing")

	var full int
	_, err = s.Subscribe("p", func() { full++ })
	require.NoError(t, err)

	record, err := backend.Load("Demo")
	require.NoError(t, err)
	record.Presets = append(record.Presets, state.PresetRecord{ID: "ext", Name: "external", Values: map[string]interface{}{"speed": 4}})
	require.NoError(t, backend.Save("Demo", record))

	changed, err = s.ReloadPresets("p")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, full)

	presets, _ := s.GetPresets("p")
	require.Len(t, presets, 2)
	assert.Equal(t, "external", presets[1].Name)
	assert.Equal(t, 4.0, presets[1].Values["speed"])

	_, err = s.ReloadPresets("missing")
	assert.True(t, errors.IsNotFound(err))
}

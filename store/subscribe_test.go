package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/state"
)

func TestEachSubscriberFiresOncePerUpdate(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var order []string
	_, err := s.Subscribe("p", func() { order = append(order, "full-a") })
	require.NoError(t, err)
	_, err = s.Subscribe("p", func() { order = append(order, "full-b") })
	require.NoError(t, err)
	_, err = s.SubscribeChange("p", func(map[string]schema.Value) { order = append(order, "change") })
	require.NoError(t, err)
	_, err = s.SubscribeActions("p", func(string) { order = append(order, "action") })
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 3))
	assert.Equal(t, []string{"full-a", "full-b", "change"}, order)
}

func TestValueIsWrittenBeforeNotify(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var seen []schema.Value
	_, err := s.Subscribe("p", func() {
		v, err := s.GetValue("p", "speed")
		require.NoError(t, err)
		seen = append(seen, v)
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 9))
	assert.Equal(t, []schema.Value{9.0}, seen)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var a, b int
	unsubA, err := s.Subscribe("p", func() { a++ })
	require.NoError(t, err)
	_, err = s.Subscribe("p", func() { b++ })
	require.NoError(t, err)

	unsubA()
	unsubA()
	require.NoError(t, s.UpdateValue("p", "speed", 3))
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b, "a second unsubscribe must not remove another listener")
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var calls []string
	var unsubB func()
	_, err := s.Subscribe("p", func() {
		calls = append(calls, "a")
		unsubB()
	})
	require.NoError(t, err)
	unsubB, err = s.Subscribe("p", func() { calls = append(calls, "b") })
	require.NoError(t, err)
	_, err = s.Subscribe("p", func() { calls = append(calls, "c") })
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 3))
	assert.Equal(t, []string{"a", "b", "c"}, calls, "the running delivery keeps its snapshot")

	calls = nil
	require.NoError(t, s.UpdateValue("p", "speed", 4))
	assert.Equal(t, []string{"a", "c"}, calls, "the removal applies from the next delivery")
}

func TestSubscribeDuringDelivery(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var late int
	subscribed := false
	_, err := s.Subscribe("p", func() {
		if !subscribed {
			subscribed = true
			_, err := s.Subscribe("p", func() { late++ })
			require.NoError(t, err)
		}
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 3))
	assert.Equal(t, 0, late)
	require.NoError(t, s.UpdateValue("p", "speed", 4))
	assert.Equal(t, 1, late)
}

func TestReentrantUpdate(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var changes []map[string]schema.Value
	_, err := s.SubscribeChange("p", func(c map[string]schema.Value) {
		changes = append(changes, c)
		if _, ok := c["speed"]; ok {
			// Keep the flag in sync with the speed.
			require.NoError(t, s.UpdateValue("p", "enabled", c["speed"].(float64) > 0))
		}
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 0))
	require.Len(t, changes, 2)
	assert.Equal(t, map[string]schema.Value{"speed": 0.0}, changes[0])
	assert.Equal(t, map[string]schema.Value{"enabled": false}, changes[1])

	enabled, _ := s.GetValue("p", "enabled")
	assert.Equal(t, false, enabled)
}

func TestReentrantPresetLoad(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))
	id, err := s.SavePreset("p", "base")
	require.NoError(t, err)

	loaded := false
	_, err = s.SubscribeChange("p", func(c map[string]schema.Value) {
		if v, ok := c["speed"]; ok && v.(float64) == 10 && !loaded {
			loaded = true
			require.NoError(t, s.LoadPreset("p", id))
		}
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 10))
	v, _ := s.GetValue("p", "speed")
	assert.Equal(t, 5.0, v)
}

// finishes runs fn and fails the test if it has not returned within two seconds.
func finishes(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not return")
	}
}

func TestReentrantPresetMutations(t *testing.T) {
	testCases := []struct {
		name string
		// notifiesChange reports whether op reaches change listeners.
		notifiesChange bool
		setup          func(t *testing.T, s *Store, backend *state.MemoryBackend) string
		op             func(s *Store, id string) error
	}{
		{
			name:           "update value",
			notifiesChange: true,
			op:             func(s *Store, _ string) error { return s.UpdateValue("p", "speed", 3) },
		},
		{
			name: "save preset",
			op: func(s *Store, _ string) error {
				_, err := s.SavePreset("p", "saved")
				return err
			},
		},
		{
			name:           "load preset",
			notifiesChange: true,
			setup:          savedPreset,
			op:             func(s *Store, id string) error { return s.LoadPreset("p", id) },
		},
		{
			name:  "delete preset",
			setup: savedPreset,
			op:    func(s *Store, id string) error { return s.DeletePreset("p", id) },
		},
		{
			name:  "clear active preset",
			setup: savedPreset,
			op:    func(s *Store, _ string) error { return s.ClearActivePreset("p") },
		},
		{
			name: "reload presets",
			setup: func(t *testing.T, _ *Store, backend *state.MemoryBackend) string {
				other := newTestStore(WithBackend(backend))
				require.NoError(t, other.RegisterPanel("q", "Demo", demoSchema()))
				_, err := other.SavePreset("q", "external")
				require.NoError(t, err)
				return ""
			},
			op: func(s *Store, _ string) error {
				_, err := s.ReloadPresets("p")
				return err
			},
		},
		{
			name:           "switch spring mode",
			notifiesChange: true,
			op:             func(s *Store, _ string) error { return s.UpdateSpringMode("p", "motion", schema.SpringAdvanced) },
		},
	}

	listeners := []struct {
		name      string
		subscribe func(s *Store, fn func()) error
	}{
		{"render", func(s *Store, fn func()) error {
			_, err := s.Subscribe("p", fn)
			return err
		}},
		{"change", func(s *Store, fn func()) error {
			_, err := s.SubscribeChange("p", func(map[string]schema.Value) { fn() })
			return err
		}},
	}

	for _, tc := range testCases {
		for _, l := range listeners {
			if l.name == "change" && !tc.notifiesChange {
				continue
			}
			t.Run(tc.name+"/"+l.name, func(t *testing.T) {
				backend := state.NewMemoryBackend()
				s := newTestStore(WithBackend(backend), WithSpringPruning(true))
				require.NoError(t, s.RegisterPanel("p", "Demo", demoSchema()))

				var id string
				if tc.setup != nil {
					id = tc.setup(t, s, backend)
				}

				reentered := false
				require.NoError(t, l.subscribe(s, func() {
					if reentered {
						return
					}
					reentered = true
					_, err := s.SavePreset("p", "from-listener")
					assert.NoError(t, err)
					assert.NoError(t, s.ClearActivePreset("p"))
				}))

				finishes(t, func() {
					assert.NoError(t, tc.op(s, id))
				})

				assert.True(t, reentered)
				presets, err := s.GetPresets("p")
				require.NoError(t, err)
				names := make([]string, 0, len(presets))
				for _, p := range presets {
					names = append(names, p.Name)
				}
				assert.Contains(t, names, "from-listener")
				active, _ := s.GetActivePresetID("p")
				assert.Empty(t, active)
			})
		}
	}
}

func savedPreset(t *testing.T, s *Store, _ *state.MemoryBackend) string {
	t.Helper()
	id, err := s.SavePreset("p", "base")
	require.NoError(t, err)
	return id
}

func TestReloadPresetsListenerCanSave(t *testing.T) {
	backend := state.NewMemoryBackend()
	a := newTestStore(WithBackend(backend))
	b := newTestStore(WithBackend(backend))
	require.NoError(t, a.RegisterPanel("a", "Shared", demoSchema()))
	require.NoError(t, b.RegisterPanel("b", "Shared", demoSchema()))
	_, err := b.SavePreset("b", "from-b")
	require.NoError(t, err)

	saved := false
	_, err = a.Subscribe("a", func() {
		if saved {
			return
		}
		saved = true
		_, err := a.SavePreset("a", "from-a")
		assert.NoError(t, err)
	})
	require.NoError(t, err)

	finishes(t, func() {
		changed, err := a.ReloadPresets("a")
		assert.NoError(t, err)
		assert.True(t, changed)
	})

	presets, err := a.GetPresets("a")
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "from-b", presets[0].Name)
	assert.Equal(t, "from-a", presets[1].Name)
}

func TestChangePayloadsFollowWriteOrder(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	rewrote := false
	_, err := s.Subscribe("p", func() {
		if !rewrote {
			rewrote = true
			require.NoError(t, s.UpdateValue("p", "speed", 9))
		}
	})
	require.NoError(t, err)

	var payloads []schema.Value
	_, err = s.SubscribeChange("p", func(c map[string]schema.Value) {
		payloads = append(payloads, c["speed"])
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 8))

	stored, _ := s.GetValue("p", "speed")
	assert.Equal(t, 9.0, stored)
	assert.Equal(t, []schema.Value{8.0, 9.0}, payloads)
	assert.Equal(t, stored, payloads[len(payloads)-1], "the last payload is the latest write")
}

func TestNotificationsAreDeliveredBeforeReturn(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var order []string
	_, err := s.Subscribe("p", func() {
		order = append(order, "render")
		if len(order) == 1 {
			require.NoError(t, s.UpdateValue("p", "enabled", false))
			order = append(order, "nested returned")
		}
	})
	require.NoError(t, err)
	_, err = s.SubscribeChange("p", func(c map[string]schema.Value) {
		for path := range c {
			order = append(order, "change "+path)
		}
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 2))
	assert.Equal(t, []string{
		"render",
		"nested returned",
		"change speed",
		"render",
		"change enabled",
	}, order)
}

func TestChangeListenersGetTheirOwnMap(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	_, err := s.SubscribeChange("p", func(c map[string]schema.Value) {
		c["speed"] = 99.0
		c["injected"] = true
	})
	require.NoError(t, err)

	var seen map[string]schema.Value
	_, err = s.SubscribeChange("p", func(c map[string]schema.Value) { seen = c })
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 3))
	assert.Equal(t, map[string]schema.Value{"speed": 3.0}, seen)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.RegisterPanel("p", "Panel", demoSchema()))

	var calls []string
	_, err := s.Subscribe("p", func() {
		calls = append(calls, "a")
		require.NoError(t, s.UnregisterPanel("p"))
	})
	require.NoError(t, err)
	unsubB, err := s.Subscribe("p", func() { calls = append(calls, "b") })
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("p", "speed", 3))
	assert.Equal(t, []string{"a"}, calls, "no listener runs against removed state")
	assert.NotPanics(t, unsubB)
}

func TestBroadcasterClosedAdd(t *testing.T) {
	b := newBroadcaster[int](nil)
	var got []int
	unsub := b.add(func(v int) { got = append(got, v) })
	b.emit(1)
	b.close()
	b.emit(2)
	late := b.add(func(v int) { got = append(got, v*10) })
	b.emit(3)

	assert.Equal(t, []int{1}, got)
	assert.Zero(t, b.len())
	assert.NotPanics(t, unsub)
	assert.NotPanics(t, late)
}

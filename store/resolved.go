package store

import (
	"github.com/eminiarts/tweakpine/schema"
)

// Resolved reads a panel's values by key, rooted at the panel or one of its
// folders. Every read goes to the store, so it always sees the latest value.
type Resolved struct {
	store   *Store
	panelID string
	prefix  string
}

// Resolved returns a reader rooted at the top of panelID.
func (s *Store) Resolved(panelID string) Resolved {
	return Resolved{store: s, panelID: panelID}
}

func (r Resolved) path(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + schema.PathSeparator + key
}

// Get returns the value stored under key.
func (r Resolved) Get(key string) (schema.Value, error) {
	return r.store.GetValue(r.panelID, r.path(key))
}

// Float returns the number under key, or 0.
func (r Resolved) Float(key string) float64 {
	v, _ := r.Get(key)
	f, _ := v.(float64)
	return f
}

// Bool returns the boolean under key, or false.
func (r Resolved) Bool(key string) bool {
	v, _ := r.Get(key)
	b, _ := v.(bool)
	return b
}

// String returns the color, select or text value under key, or "".
func (r Resolved) String(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Spring returns the spring under key, or an empty config.
func (r Resolved) Spring(key string) schema.SpringConfig {
	v, _ := r.Get(key)
	s, _ := v.(schema.SpringConfig)
	return s
}

// Folder returns a reader rooted at the folder under key.
func (r Resolved) Folder(key string) Resolved {
	return Resolved{store: r.store, panelID: r.panelID, prefix: r.path(key)}
}

// Keys lists the keys declared directly under this reader's root, actions and
// folders included.
func (r Resolved) Keys() []string {
	panel, ok := r.store.GetPanel(r.panelID)
	if !ok {
		return nil
	}
	controls := panel.Controls
	if r.prefix != "" {
		controls = nil
		for _, c := range schema.Flatten(panel.Controls) {
			if c.Path == r.prefix && c.Kind == schema.KindFolder {
				controls = c.Children
				break
			}
		}
	}
	keys := make([]string, len(controls))
	for i, c := range controls {
		keys[i] = c.Key
	}
	return keys
}

// Map returns the current values nested by folder. Actions are omitted and
// springs are rendered as mappings of their set fields.
func (r Resolved) Map() map[string]any {
	panel, ok := r.store.GetPanel(r.panelID)
	if !ok {
		return nil
	}
	values, err := r.store.GetValues(r.panelID)
	if err != nil {
		return nil
	}
	controls := panel.Controls
	if r.prefix != "" {
		controls = nil
		for _, c := range schema.Flatten(panel.Controls) {
			if c.Path == r.prefix && c.Kind == schema.KindFolder {
				controls = c.Children
				break
			}
		}
	}
	return nestValues(controls, values)
}

func nestValues(controls []schema.ControlMeta, values map[string]schema.Value) map[string]any {
	out := make(map[string]any, len(controls))
	for _, c := range controls {
		switch c.Kind {
		case schema.KindFolder:
			out[c.Key] = nestValues(c.Children, values)
		case schema.KindAction:
		default:
			out[c.Key] = persistedValue(values[c.Path])
		}
	}
	return out
}

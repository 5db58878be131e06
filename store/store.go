// Package store is the reactive configuration store behind a tweak panel. It
// holds the current value of every leaf of each registered panel, fans change
// notifications out to subscribers, tracks spring modes and manages presets.
//
// A Store is safe for concurrent use. Listeners run after the store has
// released its locks, so they may call back into any operation. The
// notifications of a panel are delivered one at a time in emission order:
// those raised by a listener are queued until the current delivery has
// reached every listener, and are delivered before the outermost operation
// returns.
package store

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/logging"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/state"
)

// Store holds the state of every registered panel.
type Store struct {
	mu     sync.RWMutex
	panels map[string]*panel

	// persistMu serializes read-modify-persist sequences so records reach the
	// backend in the order they were built.
	persistMu sync.Mutex

	backend       state.Backend
	logger        *logrus.Entry
	pruneSprings  bool
	restoreActive bool
	newID         func() string
}

// panel is the state of one registered panel. All fields except the
// broadcasters are guarded by Store.mu.
type panel struct {
	id       string
	name     string
	controls []schema.ControlMeta
	metas    map[string]schema.ControlMeta
	// order lists valued paths in declaration order.
	order []string

	values         map[string]schema.Value
	springModes    map[string]schema.SpringMode
	presets        []Preset
	activePresetID string

	queue   *dispatcher
	full    *broadcaster[struct{}]
	change  *broadcaster[map[string]schema.Value]
	actions *broadcaster[string]
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		panels: make(map[string]*panel),
		newID:  defaultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = state.NewMemoryBackend()
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("tweakpine.store")
	}
	return s
}

// RegisterPanel resolves cfg and registers it under panelID. Values start at
// their declared initial values and presets persisted under name are restored.
// Registering an id twice is an error; a schema error registers nothing.
func (s *Store) RegisterPanel(panelID, name string, cfg *schema.Config) error {
	if panelID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "panel id must not be empty")
	}

	controls, err := schema.Resolve(cfg)
	if err != nil {
		return err
	}

	p := newPanel(panelID, name, controls)

	record, err := s.backend.Load(p.persistKey())
	if err != nil {
		s.logger.WithError(err).WithField("panel", panelID).Warn("Failed to load persisted presets")
		record = state.PanelRecord{}
	}
	p.restore(record)
	if s.restoreActive && p.activePresetID != "" {
		if preset, ok := p.findPreset(p.activePresetID); ok {
			if _, err := p.apply(preset); err != nil {
				s.logger.WithError(err).WithField("panel", panelID).Warn("Active preset no longer fits the schema")
			}
		}
	}

	s.mu.Lock()
	if _, exists := s.panels[panelID]; exists {
		s.mu.Unlock()
		return errors.PanelExists(panelID)
	}
	s.panels[panelID] = p
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"panel":   panelID,
		"name":    name,
		"leaves":  len(p.order),
		"presets": len(p.presets),
	}).Debug("Registered panel")
	return nil
}

// UnregisterPanel removes every trace of panelID. Unsubscribe functions
// returned for it become no-ops and an in-flight notification stops before
// reaching further listeners.
func (s *Store) UnregisterPanel(panelID string) error {
	s.mu.Lock()
	p, ok := s.panels[panelID]
	if !ok {
		s.mu.Unlock()
		return errors.PanelNotFound(panelID)
	}
	delete(s.panels, panelID)
	s.mu.Unlock()

	p.full.close()
	p.change.close()
	p.actions.close()

	s.logger.WithField("panel", panelID).Debug("Unregistered panel")
	return nil
}

// GetPanel returns the resolved panel, or false if panelID is not registered.
func (s *Store) GetPanel(panelID string) (schema.PanelConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.panels[panelID]
	if !ok {
		return schema.PanelConfig{}, false
	}
	return schema.PanelConfig{ID: p.id, Name: p.name, Controls: p.controls}, true
}

// PanelIDs lists the registered panel ids.
func (s *Store) PanelIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.panels))
	for id := range s.panels {
		ids = append(ids, id)
	}
	return ids
}

// TriggerAction runs the action leaf at path: its Handler first, then the
// action listeners. Stored values are untouched.
func (s *Store) TriggerAction(panelID, path string) error {
	s.mu.RLock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	meta, err := p.meta(path)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	action, ok := meta.Node.(schema.Action)
	if !ok {
		s.mu.RUnlock()
		return errors.InvalidValue(path, nil, fmt.Sprintf("'%s' is a %s, not an action", path, meta.Kind))
	}
	actions := p.actions
	s.mu.RUnlock()

	s.logger.WithFields(logrus.Fields{"panel": panelID, "path": path}).Debug("Action triggered")
	if action.Handler != nil {
		action.Handler()
	}
	actions.emit(path)
	return nil
}

// panelLocked looks up a panel; the caller holds s.mu.
func (s *Store) panelLocked(panelID string) (*panel, error) {
	p, ok := s.panels[panelID]
	if !ok {
		return nil, errors.PanelNotFound(panelID)
	}
	return p, nil
}

func newPanel(id, name string, controls []schema.ControlMeta) *panel {
	queue := &dispatcher{}
	change := newBroadcaster[map[string]schema.Value](queue)
	change.clone = copyValues
	p := &panel{
		id:          id,
		name:        name,
		controls:    controls,
		metas:       make(map[string]schema.ControlMeta),
		values:      make(map[string]schema.Value),
		springModes: make(map[string]schema.SpringMode),
		queue:       queue,
		full:        newBroadcaster[struct{}](queue),
		change:      change,
		actions:     newBroadcaster[string](queue),
	}
	for _, c := range schema.Flatten(controls) {
		p.metas[c.Path] = c
		if leaf, ok := c.Leaf(); ok {
			p.order = append(p.order, c.Path)
			p.values[c.Path] = schema.CopyValue(leaf.Initial())
		}
	}
	return p
}

// persistKey is the record key presets are stored under.
func (p *panel) persistKey() string {
	if p.name != "" {
		return p.name
	}
	return p.id
}

func (p *panel) meta(path string) (schema.ControlMeta, error) {
	m, ok := p.metas[path]
	if !ok {
		return schema.ControlMeta{}, errors.PathNotFound(p.id, path)
	}
	return m, nil
}

// leaf returns the valued leaf at path.
func (p *panel) leaf(path string) (schema.Leaf, error) {
	m, err := p.meta(path)
	if err != nil {
		return nil, err
	}
	leaf, ok := m.Leaf()
	if !ok {
		return nil, errors.InvalidValue(path, nil, fmt.Sprintf("'%s' is a %s and holds no value", path, m.Kind))
	}
	return leaf, nil
}

// snapshot copies the current values.
func (p *panel) snapshot() map[string]schema.Value {
	return copyValues(p.values)
}

func copyValues(values map[string]schema.Value) map[string]schema.Value {
	out := make(map[string]schema.Value, len(values))
	for path, v := range values {
		out[path] = schema.CopyValue(v)
	}
	return out
}

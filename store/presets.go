package store

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/state"
)

// Preset is a named snapshot of a panel's values.
type Preset struct {
	ID     string
	Name   string
	Values map[string]schema.Value
}

func (p Preset) clone() Preset {
	values := make(map[string]schema.Value, len(p.Values))
	for k, v := range p.Values {
		values[k] = schema.CopyValue(v)
	}
	return Preset{ID: p.ID, Name: p.Name, Values: values}
}

// SavePreset snapshots the current values as a new preset named name, makes it
// active and persists the preset list. A persistence failure is returned with
// the new id; the preset stays available for this session.
func (s *Store) SavePreset(panelID, name string) (string, error) {
	s.persistMu.Lock()

	s.mu.Lock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return "", err
	}
	id := s.newID()
	p.presets = append(p.presets, Preset{ID: id, Name: name, Values: p.snapshot()})
	p.activePresetID = id
	key, record := p.persistKey(), p.record()
	full := p.full
	s.mu.Unlock()

	perr := s.persist(panelID, key, record)
	s.persistMu.Unlock()

	s.logger.WithFields(logrus.Fields{"panel": panelID, "preset": id, "name": name}).Info("Preset saved")
	full.emit(struct{}{})
	return id, perr
}

// LoadPreset writes the preset's values back into the store and makes it
// active. Paths the schema no longer declares are skipped; a value that no
// longer fits its leaf aborts the load before anything is written. Listeners
// get exactly one full-update and one change notification.
func (s *Store) LoadPreset(panelID, presetID string) error {
	s.persistMu.Lock()

	s.mu.Lock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return err
	}
	preset, ok := p.findPreset(presetID)
	if !ok {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return errors.PresetNotFound(panelID, presetID)
	}
	changed, err := p.apply(preset)
	if err != nil {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return err
	}
	p.activePresetID = presetID
	key, record := p.persistKey(), p.record()
	queue, full, change := p.queue, p.full, p.change
	s.mu.Unlock()

	perr := s.persist(panelID, key, record)
	s.persistMu.Unlock()

	s.logger.WithFields(logrus.Fields{"panel": panelID, "preset": presetID, "paths": len(changed)}).Info("Preset loaded")
	queue.dispatch(full.delivery(struct{}{}), change.delivery(changed))
	return perr
}

// DeletePreset removes a preset, clearing the active pointer if it pointed at it.
func (s *Store) DeletePreset(panelID, presetID string) error {
	return s.mutatePresets(panelID, func(p *panel) error {
		idx := -1
		for i, pr := range p.presets {
			if pr.ID == presetID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.PresetNotFound(panelID, presetID)
		}
		p.presets = append(p.presets[:idx:idx], p.presets[idx+1:]...)
		if p.activePresetID == presetID {
			p.activePresetID = ""
		}
		s.logger.WithFields(logrus.Fields{"panel": panelID, "preset": presetID}).Info("Preset deleted")
		return nil
	})
}

// ClearActivePreset returns to the unnamed base configuration without
// touching values.
func (s *Store) ClearActivePreset(panelID string) error {
	return s.mutatePresets(panelID, func(p *panel) error {
		p.activePresetID = ""
		return nil
	})
}

// GetPresets returns copies of the panel's presets in creation order.
func (s *Store) GetPresets(panelID string) ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	out := make([]Preset, len(p.presets))
	for i, pr := range p.presets {
		out[i] = pr.clone()
	}
	return out, nil
}

// GetActivePresetID returns the active preset id, or "" when none is active.
func (s *Store) GetActivePresetID(panelID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return "", err
	}
	return p.activePresetID, nil
}

// ReloadPresets re-reads the persisted preset list, picking up edits made
// outside this store. Values are not touched. It reports whether anything
// changed; listeners are only notified when it did.
func (s *Store) ReloadPresets(panelID string) (bool, error) {
	s.persistMu.Lock()

	s.mu.RLock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.RUnlock()
		s.persistMu.Unlock()
		return false, err
	}
	key := p.persistKey()
	s.mu.RUnlock()

	record, err := s.backend.Load(key)
	if err != nil {
		s.persistMu.Unlock()
		return false, errors.PersistenceFailed(key, err)
	}

	s.mu.Lock()
	p, err = s.panelLocked(panelID)
	if err != nil {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return false, err
	}
	before := p.record()
	p.restore(record)
	changed := !reflect.DeepEqual(before, p.record())
	full := p.full
	s.mu.Unlock()
	s.persistMu.Unlock()

	if changed {
		s.logger.WithField("panel", panelID).Info("Presets reloaded")
		full.emit(struct{}{})
	}
	return changed, nil
}

// mutatePresets runs fn under the lock, persists and notifies.
func (s *Store) mutatePresets(panelID string, fn func(p *panel) error) error {
	s.persistMu.Lock()

	s.mu.Lock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return err
	}
	if err := fn(p); err != nil {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return err
	}
	key, record := p.persistKey(), p.record()
	full := p.full
	s.mu.Unlock()

	perr := s.persist(panelID, key, record)
	s.persistMu.Unlock()

	full.emit(struct{}{})
	return perr
}

func (s *Store) persist(panelID, key string, record state.PanelRecord) error {
	if err := s.backend.Save(key, record); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"panel": panelID, "key": key}).
			Warn("Failed to persist presets; keeping them for this session")
		return errors.PersistenceFailed(key, err)
	}
	return nil
}

func (p *panel) findPreset(id string) (Preset, bool) {
	for _, pr := range p.presets {
		if pr.ID == id {
			return pr, true
		}
	}
	return Preset{}, false
}

// apply validates every preset value that still has a leaf, then writes them
// all. It returns the written values.
func (p *panel) apply(preset Preset) (map[string]schema.Value, error) {
	changed := make(map[string]schema.Value, len(preset.Values))
	for path, raw := range preset.Values {
		m, ok := p.metas[path]
		if !ok {
			continue
		}
		leaf, ok := m.Leaf()
		if !ok {
			continue
		}
		v, err := leaf.Coerce(path, raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "preset '"+preset.Name+"' does not fit the schema").
				WithDetail("preset_id", preset.ID).
				WithDetail("path", path)
		}
		changed[path] = v
	}
	for path, v := range changed {
		p.values[path] = schema.CopyValue(v)
	}
	return changed, nil
}

// record converts the preset list into its persisted form.
func (p *panel) record() state.PanelRecord {
	record := state.PanelRecord{ActivePresetID: p.activePresetID}
	for _, pr := range p.presets {
		values := make(map[string]interface{}, len(pr.Values))
		for path, v := range pr.Values {
			values[path] = persistedValue(v)
		}
		record.Presets = append(record.Presets, state.PresetRecord{ID: pr.ID, Name: pr.Name, Values: values})
	}
	return record
}

// restore replaces the preset list with a persisted record. Values that fit
// their leaf are coerced back into stored form; others are kept raw and
// surface as a validation error when the preset is loaded.
func (p *panel) restore(record state.PanelRecord) {
	p.presets = make([]Preset, 0, len(record.Presets))
	for _, r := range record.Presets {
		values := make(map[string]schema.Value, len(r.Values))
		for path, raw := range r.Values {
			values[path] = raw
			if m, ok := p.metas[path]; ok {
				if leaf, ok := m.Leaf(); ok {
					if v, err := leaf.Coerce(path, raw); err == nil {
						values[path] = v
					}
				}
			}
		}
		p.presets = append(p.presets, Preset{ID: r.ID, Name: r.Name, Values: values})
	}

	p.activePresetID = ""
	if _, ok := p.findPreset(record.ActivePresetID); ok {
		p.activePresetID = record.ActivePresetID
	}
}

func persistedValue(v schema.Value) interface{} {
	switch t := v.(type) {
	case schema.SpringConfig:
		return t.Map()
	case *schema.SpringConfig:
		if t == nil {
			return nil
		}
		return t.Map()
	default:
		return v
	}
}

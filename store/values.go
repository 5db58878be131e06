package store

import (
	"github.com/sirupsen/logrus"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
)

// GetValue returns the current value at path. Folders and actions hold no
// value and report PATH_NOT_FOUND.
func (s *Store) GetValue(panelID, path string) (schema.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	v, ok := p.values[path]
	if !ok {
		return nil, errors.PathNotFound(panelID, path)
	}
	return schema.CopyValue(v), nil
}

// UpdateValue validates v against the leaf at path, stores it and notifies the
// full-update and change listeners. Numbers are clamped into the leaf's
// bounds; values of the wrong type are rejected.
func (s *Store) UpdateValue(panelID, path string, v any) error {
	s.mu.Lock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	leaf, err := p.leaf(path)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	coerced, err := leaf.Coerce(path, v)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	p.values[path] = coerced
	queue, full, change := p.queue, p.full, p.change
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"panel": panelID, "path": path, "value": coerced}).Trace("Value updated")

	queue.dispatch(
		full.delivery(struct{}{}),
		change.delivery(map[string]schema.Value{path: schema.CopyValue(coerced)}),
	)
	return nil
}

// GetValues returns a copy of every stored value keyed by path.
func (s *Store) GetValues(panelID string) (map[string]schema.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

// Paths lists the valued paths of a panel in declaration order.
func (s *Store) Paths(panelID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), p.order...), nil
}

package store

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
)

// GetSpringMode returns the mode of the spring leaf at path, simple if never set.
func (s *Store) GetSpringMode(panelID, path string) (schema.SpringMode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return "", err
	}
	if err := p.requireSpring(path); err != nil {
		return "", err
	}
	if mode, ok := p.springModes[path]; ok {
		return mode, nil
	}
	return schema.SpringSimple, nil
}

// UpdateSpringMode sets the mode of the spring leaf at path. The stored value
// is left alone unless the store was built WithSpringPruning, in which case it
// is rewritten into the new mode and change listeners are told.
func (s *Store) UpdateSpringMode(panelID, path string, mode schema.SpringMode) error {
	if !mode.Valid() {
		return errors.InvalidValue(path, mode, fmt.Sprintf("unknown spring mode '%s'", mode))
	}

	s.mu.Lock()
	p, err := s.panelLocked(panelID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := p.requireSpring(path); err != nil {
		s.mu.Unlock()
		return err
	}
	p.springModes[path] = mode

	var changed map[string]schema.Value
	if s.pruneSprings {
		if current, ok := p.values[path].(schema.SpringConfig); ok {
			pruned := current.ToMode(mode)
			if !pruned.Equal(current) {
				p.values[path] = pruned
				changed = map[string]schema.Value{path: pruned.Clone()}
			}
		}
	}
	queue, full, change := p.queue, p.full, p.change
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"panel": panelID, "path": path, "mode": mode}).Debug("Spring mode switched")

	if changed == nil {
		full.emit(struct{}{})
	} else {
		queue.dispatch(full.delivery(struct{}{}), change.delivery(changed))
	}
	return nil
}

func (p *panel) requireSpring(path string) error {
	m, err := p.meta(path)
	if err != nil {
		return err
	}
	if m.Kind != schema.KindSpring {
		return errors.InvalidValue(path, nil, fmt.Sprintf("'%s' is a %s, not a spring", path, m.Kind))
	}
	return nil
}

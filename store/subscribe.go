package store

import "github.com/eminiarts/tweakpine/schema"

// Subscribe registers fn for every change that affects rendering: value
// updates, preset loads, preset list changes and spring mode switches.
func (s *Store) Subscribe(panelID string, fn func()) (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	return p.full.add(func(struct{}) { fn() }), nil
}

// SubscribeChange registers fn for value changes. fn receives the changed
// paths and their new values in a map of its own.
func (s *Store) SubscribeChange(panelID string, fn func(changed map[string]schema.Value)) (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	return p.change.add(fn), nil
}

// SubscribeActions registers fn for triggered actions.
func (s *Store) SubscribeActions(panelID string, fn func(path string)) (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.panelLocked(panelID)
	if err != nil {
		return nil, err
	}
	return p.actions.add(fn), nil
}

package store

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eminiarts/tweakpine/state"
)

// Option configures a Store.
type Option func(*Store)

// WithBackend sets where presets are persisted. The default keeps them in memory.
func WithBackend(b state.Backend) Option {
	return func(s *Store) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSpringPruning makes UpdateSpringMode rewrite the stored spring into the
// new mode, dropping the other mode's fields and filling defaults.
func WithSpringPruning(enabled bool) Option {
	return func(s *Store) {
		s.pruneSprings = enabled
	}
}

// WithRestoreActivePreset applies the persisted active preset when a panel is
// registered. Off by default, so a new panel starts from its declared values.
func WithRestoreActivePreset(enabled bool) Option {
	return func(s *Store) {
		s.restoreActive = enabled
	}
}

// WithIDGenerator replaces the preset id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func defaultID() string {
	return uuid.NewString()
}

package state

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/util/pathutil"
)

// Open builds the backend selected by cfg. The returned close function
// releases the backend's resources and is never nil.
func Open(cfg config.PresetsConfig, log *logrus.Entry) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryBackend(), noop, nil
	case config.BackendSQLite:
		b, err := OpenSQLite(cfg.DSN, log)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case config.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			dir = config.DefaultPresetsDir
		}
		expanded, err := pathutil.Expand(dir)
		if err != nil {
			return nil, noop, fmt.Errorf("presets dir '%s': %w", dir, err)
		}
		return NewFileBackend(expanded, log), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown preset backend '%s'", cfg.Backend)
}

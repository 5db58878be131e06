// Package cmd holds the tweakpine subcommands.
package cmd

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eminiarts/tweakpine"
	"github.com/eminiarts/tweakpine/cli"
	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/store"
)

// session is a panel loaded from a schema file for the duration of a command.
type session struct {
	cfg    *config.Config
	store  *store.Store
	panel  *tweakpine.Panel
	logger *logrus.Entry
	close  func() error
}

func (s *session) Close() error {
	err := s.panel.Close()
	if s.close != nil {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}
	return err
}

// panelName is the --name flag, or the schema file name without extension.
func panelName(cmd *cobra.Command, schemaPath string) string {
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		return name
	}
	base := filepath.Base(schemaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func addPanelFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Panel name; presets are stored under it (default: schema file name)")
}

// openSession validates and registers the schema at schemaPath in a store
// configured from the tool config.
func openSession(cmd *cobra.Command, schemaPath string, opts ...tweakpine.Option) (*session, error) {
	logger := cli.GetLogger(cmd)

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	panelCfg, err := validator.LoadFile(schemaPath)
	if err != nil {
		return nil, err
	}

	s, closeFn, err := tweakpine.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	name := panelName(cmd, schemaPath)
	base := []tweakpine.Option{tweakpine.WithID(name)}
	if cfg.Panel.Position != "" {
		base = append(base, tweakpine.WithPosition(cfg.Panel.Position))
	}
	panel, err := tweakpine.Create(s, name, panelCfg, append(base, opts...)...)
	if err != nil {
		if closeFn != nil {
			_ = closeFn()
		}
		return nil, err
	}
	logger.WithFields(logrus.Fields{"panel": name, "schema": schemaPath}).Debug("Panel registered")

	return &session{cfg: cfg, store: s, panel: panel, logger: logger, close: closeFn}, nil
}

// findPreset resolves a preset by id or, failing that, by name.
func (s *session) findPreset(ref string) (store.Preset, error) {
	presets, err := s.store.GetPresets(s.panel.ID())
	if err != nil {
		return store.Preset{}, err
	}
	for _, p := range presets {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range presets {
		if p.Name == ref {
			return p, nil
		}
	}
	return store.Preset{}, errors.PresetNotFound(s.panel.ID(), ref)
}

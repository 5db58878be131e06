package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eminiarts/tweakpine/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "tweakpine.yml", `presets:
  backend: file
  dir: shared/presets
panel:
  position: top-left
  keys:
    save_preset: [s]
    quit: [q]
logging:
  level: info
  file:
    enabled: false
`)
	writeFile(t, dir, "tweakpine.override.yml", `presets:
  watch: true
panel:
  theme: terminal
  keys:
    quit: [Q]
logging:
  level: debug
`)

	cfg, err := LoadWithOverrides(base)
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Presets.Backend)
	assert.Equal(t, "shared/presets", cfg.Presets.Dir)
	assert.True(t, cfg.Presets.Watch)
	assert.Equal(t, PositionTopLeft, cfg.Panel.Position)
	assert.Equal(t, "terminal", cfg.Panel.Theme)
	assert.Equal(t, []string{"s"}, cfg.Panel.Keys["save_preset"])
	assert.Equal(t, []string{"Q"}, cfg.Panel.Keys["quit"])

	logging, ok := cfg.Extensions["logging"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "debug", logging["level"])
	assert.NotNil(t, logging["file"], "sections merge key by key")
}

func TestLoadWithOverridesRevalidates(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "tweakpine.yml", "presets:\n  backend: file\n")
	writeFile(t, dir, ".tweakpine.override.yml", "panel:\n  position: middle\n")

	_, err := LoadWithOverrides(base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestLoadWithOverridesBadYAML(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "tweakpine.yml", "presets:\n  backend: memory\n")
	writeFile(t, dir, "tweakpine.override.yml", "panel: [unclosed\n")

	_, err := LoadWithOverrides(base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestLoadWithoutOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "tweakpine.yml", "presets:\n  backend: memory\n")

	cfg, err := LoadWithOverrides(base)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Presets.Backend)
	assert.Equal(t, PositionTopRight, cfg.Panel.Position)
}

func TestLoadFromAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tweakpine.yml", "presets:\n  backend: memory\n")
	writeFile(t, dir, "tweakpine.override.yml", "panel:\n  spring_mode_switch: prune\n")

	nested := filepath.Join(dir, "src", "scene")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	cfg, err := LoadFromWithLogger(nested, logger)
	require.NoError(t, err)
	assert.True(t, cfg.PruneSprings())
}

func TestMergeConfigsKeepsBase(t *testing.T) {
	base := &Config{
		Version: "1.0",
		Presets: PresetsConfig{Backend: BackendSQLite, DSN: "panels.db", RestoreActive: true},
		Panel:   PanelSettings{Position: PositionBottomRight},
	}
	merged := mergeConfigs(base, &Config{})

	assert.Equal(t, base.Presets, merged.Presets)
	assert.Equal(t, base.Panel, merged.Panel)
	assert.Equal(t, "1.0", merged.Version)
	assert.Nil(t, merged.Extensions)
}

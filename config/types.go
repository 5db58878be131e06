package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// Preset storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Spring mode switch policies.
const (
	SpringSwitchKeep  = "keep"
	SpringSwitchPrune = "prune"
)

// Panel positions.
const (
	PositionTopRight    = "top-right"
	PositionTopLeft     = "top-left"
	PositionBottomRight = "bottom-right"
	PositionBottomLeft  = "bottom-left"
)

// Positions lists every accepted panel position.
var Positions = []string{PositionTopRight, PositionTopLeft, PositionBottomRight, PositionBottomLeft}

// DefaultPresetsDir is where the file backend keeps preset records.
const DefaultPresetsDir = ".tweakpine/presets"

// PresetsConfig selects and tunes preset persistence.
type PresetsConfig struct {
	Backend       string `yaml:"backend" toml:"backend" json:"backend" validate:"omitempty,oneof=file memory sqlite" jsonschema:"enum=file,enum=memory,enum=sqlite,description=Where presets are persisted"`
	Dir           string `yaml:"dir,omitempty" toml:"dir,omitempty" json:"dir,omitempty" jsonschema:"description=Directory for the file backend"`
	DSN           string `yaml:"dsn,omitempty" toml:"dsn,omitempty" json:"dsn,omitempty" validate:"required_if=Backend sqlite" jsonschema:"description=SQLite data source for the sqlite backend"`
	RestoreActive bool   `yaml:"restore_active" toml:"restore_active" json:"restore_active" jsonschema:"description=Re-apply the persisted active preset when a panel registers"`
	Watch         bool   `yaml:"watch" toml:"watch" json:"watch" jsonschema:"description=Reload presets when their files change on disk"`
}

// PanelSettings controls how panels are presented and edited.
type PanelSettings struct {
	Position         string `yaml:"position" toml:"position" json:"position" validate:"omitempty,oneof=top-right top-left bottom-right bottom-left" jsonschema:"enum=top-right,enum=top-left,enum=bottom-right,enum=bottom-left,description=Corner the panel is anchored to"`
	Theme            string `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty" validate:"omitempty,oneof=kanagawa terminal" jsonschema:"enum=kanagawa,enum=terminal,description=Color theme of the terminal panel"`
	SpringModeSwitch string `yaml:"spring_mode_switch" toml:"spring_mode_switch" json:"spring_mode_switch" validate:"omitempty,oneof=keep prune" jsonschema:"enum=keep,enum=prune,description=Whether switching a spring's mode rewrites its stored value"`
	// Keys overrides key bindings of the terminal panel by action name.
	Keys map[string][]string `yaml:"keys,omitempty" toml:"keys,omitempty" json:"keys,omitempty" validate:"omitempty,dive,keys,required,endkeys,min=1" jsonschema:"description=Key binding overrides keyed by action (e.g. save_preset)"`
}

// Config is the tweakpine tool configuration.
type Config struct {
	Version string        `yaml:"version" toml:"version" json:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Presets PresetsConfig `yaml:"presets" toml:"presets" json:"presets"`
	Panel   PanelSettings `yaml:"panel" toml:"panel" json:"panel"`

	// Extensions captures all other top-level keys, such as the logging section.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Presets.Backend == "" {
		c.Presets.Backend = BackendFile
	}
	if c.Presets.Backend == BackendFile && c.Presets.Dir == "" {
		c.Presets.Dir = DefaultPresetsDir
	}
	if c.Panel.Position == "" {
		c.Panel.Position = PositionTopRight
	}
	if c.Panel.Theme == "" {
		c.Panel.Theme = "kanagawa"
	}
	if c.Panel.SpringModeSwitch == "" {
		c.Panel.SpringModeSwitch = SpringSwitchKeep
	}
}

// PruneSprings reports whether switching spring modes rewrites stored values.
func (c *Config) PruneSprings() bool {
	return c.Panel.SpringModeSwitch == SpringSwitchPrune
}

// UnmarshalExtension decodes the top-level section key into target, which must
// be a pointer. A missing section leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *TweakError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *TweakError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// SchemaInvalid creates a malformed leaf error for the node at path.
func SchemaInvalid(path, reason string) *TweakError {
	return New(ErrCodeSchemaInvalid, fmt.Sprintf("invalid schema at '%s': %s", path, reason)).
		WithDetail("path", path)
}

// DuplicatePath creates a path collision error
func DuplicatePath(path string) *TweakError {
	return New(ErrCodeDuplicatePath, fmt.Sprintf("path '%s' is declared more than once", path)).
		WithDetail("path", path)
}

// PanelExists creates an error for registering an id twice
func PanelExists(panelID string) *TweakError {
	return New(ErrCodePanelExists, fmt.Sprintf("panel '%s' is already registered", panelID)).
		WithDetail("panel", panelID)
}

// PanelNotFound creates a panel not found error
func PanelNotFound(panelID string) *TweakError {
	return New(ErrCodePanelNotFound, fmt.Sprintf("panel '%s' not found", panelID)).
		WithDetail("panel", panelID)
}

// PathNotFound creates an error for an unknown leaf path
func PathNotFound(panelID, path string) *TweakError {
	return New(ErrCodePathNotFound, fmt.Sprintf("path '%s' not found in panel '%s'", path, panelID)).
		WithDetail("panel", panelID).
		WithDetail("path", path)
}

// PresetNotFound creates an error for an unknown preset id
func PresetNotFound(panelID, presetID string) *TweakError {
	return New(ErrCodePresetNotFound, fmt.Sprintf("preset '%s' not found in panel '%s'", presetID, panelID)).
		WithDetail("panel", panelID).
		WithDetail("preset", presetID)
}

// InvalidValue creates a validation error for a value rejected by a leaf
func InvalidValue(path string, value interface{}, reason string) *TweakError {
	return New(ErrCodeValidation, fmt.Sprintf("invalid value for '%s': %s", path, reason)).
		WithDetail("path", path).
		WithDetail("value", value)
}

// PersistenceFailed wraps a storage failure for the preset record under key
func PersistenceFailed(key string, err error) *TweakError {
	return Wrap(err, ErrCodePersistence, fmt.Sprintf("failed to persist presets for '%s'", key)).
		WithDetail("key", key)
}

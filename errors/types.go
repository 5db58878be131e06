package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Schema errors, raised while registering a panel
	ErrCodeSchemaInvalid ErrorCode = "SCHEMA_INVALID"
	ErrCodeDuplicatePath ErrorCode = "DUPLICATE_PATH"
	ErrCodePanelExists   ErrorCode = "PANEL_EXISTS"

	// Lookup errors
	ErrCodePanelNotFound  ErrorCode = "PANEL_NOT_FOUND"
	ErrCodePathNotFound   ErrorCode = "PATH_NOT_FOUND"
	ErrCodePresetNotFound ErrorCode = "PRESET_NOT_FOUND"

	// Value errors
	ErrCodeValidation ErrorCode = "VALIDATION"

	// Preset storage errors
	ErrCodePersistence ErrorCode = "PERSISTENCE"

	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// TweakError represents a structured error with context
type TweakError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *TweakError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TweakError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *TweakError) WithDetail(key string, value interface{}) *TweakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *TweakError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new TweakError
func New(code ErrorCode, message string) *TweakError {
	return &TweakError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a TweakError
func Wrap(err error, code ErrorCode, message string) *TweakError {
	return &TweakError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific TweakError code.
// The outermost TweakError in the chain decides.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	tweakErr, ok := err.(*TweakError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return tweakErr.Code
}

// IsNotFound reports whether err is any of the lookup errors.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodePanelNotFound, ErrCodePathNotFound, ErrCodePresetNotFound:
		return true
	}
	return false
}

// IsSchema reports whether err was raised while resolving a schema.
func IsSchema(err error) bool {
	switch GetCode(err) {
	case ErrCodeSchemaInvalid, ErrCodeDuplicatePath:
		return true
	}
	return false
}

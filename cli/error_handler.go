package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/eminiarts/tweakpine/errors"
)

// ErrorHandler prints user-facing messages for tweakpine errors.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a hint matching the error code and returns err unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	var tweakErr *errors.TweakError
	if te, ok := err.(*errors.TweakError); ok {
		tweakErr = te
	}
	detail := func(key string) interface{} {
		if tweakErr == nil {
			return ""
		}
		return tweakErr.Details[key]
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "Configuration not found. Pass --config or create tweakpine.yml.\n")
	case errors.ErrCodeConfigValidation, errors.ErrCodeConfigInvalid:
		fmt.Fprintf(out, "Invalid configuration: %v\n", messageOf(err))
	case errors.ErrCodeSchemaInvalid, errors.ErrCodeDuplicatePath:
		fmt.Fprintf(out, "Schema error at '%v': %v\n", detail("path"), messageOf(err))
		fmt.Fprintf(out, "Check the file with 'tweakpine schema validate'.\n")
	case errors.ErrCodePresetNotFound:
		fmt.Fprintf(out, "Preset '%v' not found. Run 'tweakpine presets list' to see saved presets.\n", detail("preset"))
	case errors.ErrCodePathNotFound:
		fmt.Fprintf(out, "No control at '%v'.\n", detail("path"))
	case errors.ErrCodeValidation:
		fmt.Fprintf(out, "Rejected value: %v\n", messageOf(err))
	case errors.ErrCodePersistence:
		fmt.Fprintf(out, "Presets could not be saved: %v\n", err)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	if h.Verbose && tweakErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", tweakErr.ToJSON())
	}
	return err
}

func messageOf(err error) string {
	if te, ok := err.(*errors.TweakError); ok {
		return te.Message
	}
	return err.Error()
}

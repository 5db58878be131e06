package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eminiarts/tweakpine/errors"
)

var structValidator = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			messages := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, describeFieldError(fe))
			}
			return errors.New(errors.ErrCodeConfigValidation, strings.Join(messages, "; ")).
				WithDetail("fields", len(fieldErrs))
		}
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "configuration validation failed")
	}

	if c.Presets.Backend == BackendFile && strings.TrimSpace(c.Presets.Dir) == "" {
		return errors.New(errors.ErrCodeConfigValidation, "presets.dir cannot be empty for the file backend")
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", field, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
}

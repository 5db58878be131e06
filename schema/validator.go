package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	tperrors "github.com/eminiarts/tweakpine/errors"
)

//go:embed tweakpine.schema.json
var embeddedSchemaData []byte

// Validator checks YAML schema documents against the embedded JSON Schema
// before they are decoded.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tweakpine.json", strings.NewReader(string(embeddedSchemaData))); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}

	schema, err := compiler.Compile("tweakpine.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks any value that marshals to a JSON document.
func (v *Validator) Validate(doc interface{}) error {
	// The compiler only understands plain JSON values.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal schema document to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return tperrors.New(tperrors.ErrCodeSchemaInvalid,
				fmt.Sprintf("schema validation failed:\n%s", strings.Join(errorMessages, "\n")))
		}
		return tperrors.Wrap(err, tperrors.ErrCodeSchemaInvalid, "schema validation failed")
	}

	return nil
}

// ValidateYAML parses data and validates the resulting document.
func (v *Validator) ValidateYAML(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeSchemaInvalid, "failed to parse schema YAML")
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return v.Validate(doc)
}

// LoadFile validates and decodes a YAML schema file.
func (v *Validator) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tperrors.Wrap(err, tperrors.ErrCodeInvalidInput, fmt.Sprintf("failed to read schema file: %s", path))
	}
	if err := v.ValidateYAML(data); err != nil {
		return nil, err
	}
	return Decode(data)
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", loc, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

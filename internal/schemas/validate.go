// Package schemas provides JSON Schema validation for model output.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError reports which fields of a document failed validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError reports a schema that could not be loaded or parsed.
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema: %s: %v", e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateString validates JSON content against a JSON Schema, both given
// as strings. Returns *ValidationError when the document does not conform.
func ValidateString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Message: "schema validation failed during load", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

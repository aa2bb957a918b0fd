// Package schema validates JSON documents against embedded JSON Schemas and
// turns gojsonschema's results into readable validation errors.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"exifdeck/internal/services"
)

// Schema is a compiled JSON Schema with a name used in error messages.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses a schema document.
func Compile(name, source string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}
	return &Schema{name: name, schema: compiled}, nil
}

// MustCompile is Compile for schemas embedded in the binary.
func MustCompile(name, source string) *Schema {
	s, err := Compile(name, source)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks data against the schema. Schema violations are returned as
// a single error matching services.ErrValidation; malformed JSON matches
// services.ErrParse.
func (s *Schema) Validate(data []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &services.ParseError{Source: s.name, Detail: "invalid JSON", Err: err}
	}
	if result.Valid() {
		return nil
	}
	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, formatError(desc.String()))
	}
	return services.Wrap(services.ErrValidation, s.name, "schema", strings.Join(messages, "; "), nil)
}

// formatError trims gojsonschema's "(root)" noise from a result line.
func formatError(raw string) string {
	if strings.Contains(raw, "Additional property") {
		if _, rest, ok := strings.Cut(raw, "Additional property "); ok {
			return "unexpected field " + strings.TrimSuffix(rest, " is not allowed")
		}
	}
	if strings.Contains(raw, "is required") {
		if ctx, rest, ok := strings.Cut(raw, ": "); ok {
			field := strings.TrimSuffix(rest, " is required")
			if inner, found := strings.CutPrefix(ctx, "(root)."); found {
				return fmt.Sprintf("missing field %s (in %s)", field, inner)
			}
			return "missing field " + field
		}
	}
	if rest, ok := strings.CutPrefix(raw, "(root): "); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(raw, "(root)."); ok {
		return rest
	}
	return raw
}

// Package profile loads and validates the candidate profile the pipeline
// applies on behalf of. The profile is validated twice: its JSON shape
// against an embedded JSON Schema, then field semantics with struct tags.
package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/apply-agent/internal/types"
)

//go:embed candidate_profile.schema.json
var profileSchema string

var validate = validator.New()

// ValidationError aggregates schema violations with their field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at one field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("profile validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Load reads and validates a candidate profile from a JSON file.
func Load(path string) (*types.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw JSON against the embedded schema and decodes it.
func Parse(data []byte) (*types.CandidateProfile, error) {
	schemaLoader := gojsonschema.NewStringLoader(profileSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("profile schema validation failed: %w", err)
	}
	if !result.Valid() {
		ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, ve
	}

	var p types.CandidateProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("profile field validation failed: %w", err)
	}
	return &p, nil
}

package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	compiled *gojsonschema.Schema
	raw      map[string]interface{}
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var activityNaming = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

// Compile builds a Schema from its decoded JSON form.
func Compile(schema map[string]interface{}) (*Schema, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("schema is empty")
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled, raw: schema}, nil
}

// CompileJSON builds a Schema from raw JSON text.
func CompileJSON(schemaJSON []byte) (*Schema, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(schemaJSON, &m); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return Compile(m)
}

// MustCompileJSON is CompileJSON for schemas embedded in the binary.
func MustCompileJSON(schemaJSON string) *Schema {
	s, err := CompileJSON([]byte(schemaJSON))
	if err != nil {
		panic(err)
	}
	return s
}

// Raw returns the decoded schema document.
func (s *Schema) Raw() map[string]interface{} {
	return s.raw
}

// Validate checks doc, which may be a Go value or a decoded JSON document.
func (s *Schema) Validate(doc interface{}) *ValidationResult {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_DOCUMENT",
		}}}
	}
	return toResult(result)
}

// ValidateJSON checks a raw JSON document.
func (s *Schema) ValidateJSON(doc []byte) *ValidationResult {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_DOCUMENT",
		}}}
	}
	return toResult(result)
}

func toResult(r *gojsonschema.Result) *ValidationResult {
	vr := &ValidationResult{Valid: r.Valid()}
	for _, desc := range r.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return vr
}

// fieldName reports a missing required property under its own path, not its parent's.
func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() != "required" {
		return desc.Field()
	}
	prop, ok := desc.Details()["property"].(string)
	if !ok || prop == "" {
		return desc.Field()
	}
	if parent := desc.Field(); parent != "" && parent != "(root)" {
		return parent + "." + prop
	}
	return prop
}

// ValidateActivityNaming validates activity ID follows naming convention
func ValidateActivityNaming(activityID string) error {
	if !activityNaming.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., essay.prompt.classify)")
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

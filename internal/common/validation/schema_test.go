package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["essay"],
  "properties": {
    "essay":     {"type": "string", "minLength": 1},
    "wordLimit": {"type": ["string", "integer"]}
  }
}`

func TestCompile(t *testing.T) {
	_, err := Compile(nil)
	assert.Error(t, err)

	_, err = CompileJSON([]byte("{"))
	assert.Error(t, err)

	_, err = Compile(map[string]interface{}{"type": 12})
	assert.Error(t, err)

	s, err := CompileJSON([]byte(testSchema))
	require.NoError(t, err)
	assert.Equal(t, "object", s.Raw()["type"])
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompileJSON(testSchema)

	tests := []struct {
		name      string
		doc       map[string]interface{}
		valid     bool
		errField  string
		errorCode string
	}{
		{"valid", map[string]interface{}{"essay": "text"}, true, "", ""},
		{"valid numeric limit", map[string]interface{}{"essay": "text", "wordLimit": 650}, true, "", ""},
		{"missing essay", map[string]interface{}{}, false, "essay", "REQUIRED"},
		{"empty essay", map[string]interface{}{"essay": ""}, false, "essay", "STRING_GTE"},
		{"wrong type", map[string]interface{}{"essay": 3}, false, "essay", "INVALID_TYPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Validate(tt.doc)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.True(t, res.HasErrors(tt.errField), res.GetErrorMessages())
				assert.Equal(t, tt.errorCode, res.Errors[0].Code)
			}
		})
	}
}

func TestSchema_RequiredFieldNames(t *testing.T) {
	s := MustCompileJSON(`{
  "type": "object",
  "required": ["essay", "meta"],
  "properties": {
    "essay": {"type": "string"},
    "meta": {"type": "object", "required": ["author"], "properties": {"author": {"type": "string"}}}
  }
}`)

	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"top level", `{"meta":{"author":"a"}}`, "essay"},
		{"nested", `{"essay":"x","meta":{}}`, "meta.author"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.ValidateJSON([]byte(tt.doc))
			require.False(t, res.Valid)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.field, res.Errors[0].Field)
			assert.Equal(t, "REQUIRED", res.Errors[0].Code)
			assert.False(t, res.HasErrors("(root)"))
		})
	}
}

func TestSchema_ValidateJSON(t *testing.T) {
	s := MustCompileJSON(testSchema)

	assert.True(t, s.ValidateJSON([]byte(`{"essay":"x"}`)).Valid)

	res := s.ValidateJSON([]byte(`{"essay":`))
	assert.False(t, res.Valid)
	assert.Equal(t, "INVALID_DOCUMENT", res.Errors[0].Code)
}

func TestMustCompileJSON_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompileJSON("nope") })
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("essay.prompt.classify"))
	assert.Error(t, ValidateActivityNaming("classify-prompt"))
	assert.Error(t, ValidateActivityNaming("Essay.Prompt.Classify"))
}

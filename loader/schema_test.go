package loader

import (
	"strings"
	"testing"
)

func TestValidateSchema_ValidMinimal(t *testing.T) {
	yaml := `
project:
  name: test_api
functions:
  - name: add_one
    returns: int
`
	if err := ValidateSchema([]byte(yaml)); err != nil {
		t.Errorf("expected valid manifest, got error: %v", err)
	}
}

func TestValidateSchema_MissingProject(t *testing.T) {
	yaml := `
functions:
  - name: add_one
`
	if err := ValidateSchema([]byte(yaml)); err == nil {
		t.Error("expected error for missing 'project' key")
	}
}

func TestValidateSchema_InvalidProjectName(t *testing.T) {
	yaml := `
project:
  name: BadName
`
	if err := ValidateSchema([]byte(yaml)); err == nil {
		t.Error("expected error for PascalCase project name (must be snake_case)")
	}
}

func TestValidateSchema_UnknownKey(t *testing.T) {
	yaml := `
project:
  name: test_api
surprises: true
`
	if err := ValidateSchema([]byte(yaml)); err == nil {
		t.Error("expected error for unknown top-level key")
	}
}

func TestValidateSchema_TypeMissingToRaw(t *testing.T) {
	yaml := `
project:
  name: test_api
types:
  - name: torch::Stream
`
	if err := ValidateSchema([]byte(yaml)); err == nil {
		t.Error("expected error for type registration without to_raw")
	}
}

func TestValidateSchema_BadFunctionName(t *testing.T) {
	yaml := `
project:
  name: test_api
functions:
  - name: "3bad"
`
	if err := ValidateSchema([]byte(yaml)); err == nil {
		t.Error("expected error for function name starting with a digit")
	}
}

func TestValidateSchema_NotYAML(t *testing.T) {
	err := ValidateSchema([]byte("\t{{{"))
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSchemaJSON_NonEmpty(t *testing.T) {
	s := SchemaJSON()
	if !strings.Contains(s, "torchexport manifest") {
		t.Error("schema JSON should carry the manifest title")
	}
}

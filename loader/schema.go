package loader

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// schemaJSON is the embedded JSON Schema for manifest validation.
var schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://mlverse.github.io/torchexport/schemas/manifest/v1",
  "title": "torchexport manifest",
  "description": "Schema for torchexport manifest YAML files.",
  "type": "object",
  "required": ["project"],
  "additionalProperties": false,
  "properties": {
    "project": { "$ref": "#/$defs/project" },
    "types": {
      "type": "array",
      "items": { "$ref": "#/$defs/type_registration" }
    },
    "functions": {
      "type": "array",
      "items": { "$ref": "#/$defs/function_declaration" }
    },
    "sources": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    }
  },
  "$defs": {
    "project": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "pattern": "^[a-z][a-z0-9_]*$" },
        "linkage_macro": { "type": "string", "pattern": "^[A-Z][A-Z0-9_]*$" },
        "boundary_prefix": { "type": "string", "pattern": "^[A-Za-z0-9_]+$" },
        "protect_begin": { "type": "string", "pattern": "^[A-Z][A-Z0-9_]*$" },
        "protect_end": { "type": "string", "pattern": "^[A-Z][A-Z0-9_]*$" },
        "check_hook": { "type": "string", "pattern": "^[a-zA-Z_][a-zA-Z0-9_:]*$" },
        "boundary_pointer": { "type": "string", "minLength": 1 }
      }
    },
    "type_registration": {
      "type": "object",
      "required": ["name", "to_raw"],
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "to_raw": { "type": "string", "minLength": 1 },
        "from_raw": { "type": "string", "minLength": 1 },
        "boundary": { "type": "string", "minLength": 1 },
        "binding": { "type": "string", "minLength": 1 }
      }
    },
    "function_declaration": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$" },
        "returns": { "type": "string", "minLength": 1 },
        "parameters": {
          "type": "array",
          "items": { "$ref": "#/$defs/parameter" }
        }
      }
    },
    "parameter": {
      "type": "object",
      "required": ["name", "type"],
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$" },
        "type": { "type": "string", "minLength": 1 }
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	var schemaDoc interface{}
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to decode schema JSON: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add schema resource: %v", err))
	}
	var err error
	compiledSchema, err = c.Compile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema: %v", err))
	}
}

// SchemaJSON returns the embedded JSON Schema text.
func SchemaJSON() string {
	return schemaJSON
}

// ValidateSchema validates raw YAML bytes against the manifest JSON Schema.
func ValidateSchema(yamlData []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(yamlData, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	converted := convertYAMLToJSON(raw)

	if err := compiledSchema.Validate(converted); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// convertYAMLToJSON converts YAML-parsed values to JSON-compatible types.
// yaml.v3 produces map[string]interface{} already, but nested values and
// integers need recursive normalization.
func convertYAMLToJSON(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			result[k] = convertYAMLToJSON(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = convertYAMLToJSON(val)
		}
		return result
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}

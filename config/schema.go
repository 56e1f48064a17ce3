package config

import (
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for kit.yml. Extensions are
// allowed as additional properties.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Kit Configuration"
	schema.Description = "Schema for kit.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}

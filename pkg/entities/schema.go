package entities

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// entitySchema constrains the model's JSON output before it is trusted.
const entitySchema = `{
	"type": "object",
	"properties": {
		"people": {
			"type": "array",
			"items": {"type": "string"}
		},
		"activities": {
			"type": "array",
			"items": {"type": "string"}
		}
	},
	"required": ["people", "activities"],
	"additionalProperties": false
}`

var schemaLoader = gojsonschema.NewStringLoader(entitySchema)

// validateEntityJSON checks a raw JSON document against the entity schema.
func validateEntityJSON(doc string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("entity output does not match schema: %v", result.Errors())
	}
	return nil
}

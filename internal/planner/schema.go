package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSON Schemas for the two structured backend responses. Validation happens
// after the extract package has coerced the raw text, so these only guard
// shape, not formatting.

const outlineSchemaJSON = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["title", "pages"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"pages": {"type": "integer", "minimum": 1},
			"description": {"type": "string"}
		}
	}
}`

const blueprintSchemaJSON = `{
	"type": "object",
	"required": ["sections"],
	"properties": {
		"sections": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["heading"],
				"properties": {
					"heading": {"type": "string", "minLength": 1},
					"subsections": {"type": "array", "items": {"type": "string"}},
					"code_snippets": {"type": "array", "items": {"type": "string"}},
					"datasets": {"type": "array", "items": {"type": "string"}},
					"key_takeaways": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var (
	outlineSchema   = mustCompileSchema("outline.json", outlineSchemaJSON)
	blueprintSchema = mustCompileSchema("blueprint.json", blueprintSchemaJSON)
)

func mustCompileSchema(name, raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("add schema resource %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// validateAgainst validates raw JSON against a compiled schema.
func validateAgainst(schema *jsonschema.Schema, raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// questionSetSchema constrains the generated question array.
var questionSetSchema = map[string]any{
	"type":     "array",
	"minItems": 6,
	"maxItems": 6,
	"items": map[string]any{
		"type":     "object",
		"required": []string{"question", "difficulty", "timeLimit"},
		"properties": map[string]any{
			"question":   map[string]any{"type": "string", "minLength": 1},
			"difficulty": map[string]any{"type": "string", "minLength": 1},
			"timeLimit":  map[string]any{"enum": []any{20, 60, 120, "20", "60", "120"}},
		},
	},
}

var scoreSchema = map[string]any{
	"type":     "object",
	"required": []string{"score"},
	"properties": map[string]any{
		"score": map[string]any{"type": "number"},
	},
}

type schemaValidator struct {
	schema *jsonschema.Schema
}

func newSchemaValidator(name string, schemaMap map[string]any) (*schemaValidator, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &schemaValidator{schema: schema}, nil
}

func mustSchemaValidator(name string, schemaMap map[string]any) *schemaValidator {
	v, err := newSchemaValidator(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks raw JSON against the schema.
func (v *schemaValidator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// stripCodeFences removes markdown code fences the models like to add.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// extractJSONArray returns the outermost [...] span of text, or the cleaned text.
func extractJSONArray(text string) string {
	return extractJSONSpan(stripCodeFences(text), "[", "]")
}

// extractJSONObject returns the outermost {...} span of text, or the cleaned text.
func extractJSONObject(text string) string {
	return extractJSONSpan(stripCodeFences(text), "{", "}")
}

func extractJSONSpan(text, open, close string) string {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

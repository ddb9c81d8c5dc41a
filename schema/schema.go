// Package schema builds and validates JSON Schemas for tool parameters.
//
// # Quick Start
//
//	params := schema.Object(map[string]*schema.Property{
//	    "query": schema.String("Free-text search over transcripts"),
//	    "limit": schema.Integer("Max results to return").Min(1).Max(50).Default(10),
//	}, "query") // "query" is required
//
//	violations := params.Validate(map[string]any{"limit": 200})
//	// violations: ["(root): missing property 'query'", "/limit: maximum: got 200, want 50"]
//
// The registry validates tool arguments against the tool's schema before
// every call, so tools can assume required properties are present and typed.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var violationPrinter = message.NewPrinter(language.English)

// Schema is a JSON Schema definition. It carries both the raw map form
// (rendered into prompts) and a compiled validator.
//
// A Schema is compiled lazily on first Validate; call Compile up front to
// surface authoring mistakes early. Compilation is cached.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// New wraps an already-built raw schema map. Prefer the Object builder for
// typical tool parameter schemas.
func New(raw map[string]any) *Schema {
	return &Schema{raw: raw}
}

// Raw returns the underlying map form of the schema.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// JSON renders the schema as compact JSON for inclusion in prompts.
func (s *Schema) JSON() string {
	if s == nil || s.raw == nil {
		return "{}"
	}
	b, err := json.Marshal(s.raw)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Compile builds the validator. It is idempotent; subsequent calls return
// the first result.
func (s *Schema) Compile() error {
	if s == nil || s.raw == nil || s.compiled != nil {
		return nil
	}

	encoded, err := json.Marshal(s.raw)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	s.compiled = compiled
	return nil
}

// Validate checks data against the schema and returns one human-readable
// violation per failed constraint, each prefixed with the JSON pointer of
// the offending value ("(root)" for top-level failures). A nil or empty
// return means the data is valid.
func (s *Schema) Validate(data map[string]any) []string {
	if s == nil || s.raw == nil {
		return nil
	}
	if err := s.Compile(); err != nil {
		return []string{err.Error()}
	}

	err := s.compiled.Validate(data)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errorsAs(err, &verr) {
		return []string{err.Error()}
	}
	return flatten(verr, nil)
}

func errorsAs(err error, target **jsonschema.ValidationError) bool {
	v, ok := err.(*jsonschema.ValidationError)
	if ok {
		*target = v
	}
	return ok
}

// flatten walks to the leaf causes, which carry the concrete keyword
// failures; interior nodes only say "doesn't validate".
func flatten(verr *jsonschema.ValidationError, out []string) []string {
	if len(verr.Causes) == 0 {
		out = append(out, fmt.Sprintf("%s: %s",
			pointer(verr.InstanceLocation),
			verr.ErrorKind.LocalizedString(violationPrinter)))
		return out
	}
	for _, cause := range verr.Causes {
		out = flatten(cause, out)
	}
	return out
}

func pointer(location []string) string {
	if len(location) == 0 {
		return "(root)"
	}
	p := ""
	for _, seg := range location {
		p += "/" + seg
	}
	return p
}

// -----------------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------------

// Object builds an object schema from named properties. Variadic trailing
// names mark properties as required. A nil property map yields a schema
// accepting any object.
//
// Example:
//
//	schema.Object(map[string]*schema.Property{
//	    "category": schema.String("Journey category").Enum("JT_FRAUD", "JT_CARD_ISSUE"),
//	    "days":     schema.Integer("Lookback window in days").Min(1).Default(30),
//	}, "category")
func Object(properties map[string]*Property, required ...string) *Schema {
	raw := map[string]any{"type": "object"}
	if len(properties) > 0 {
		props := make(map[string]any, len(properties))
		for name, prop := range properties {
			props[name] = prop.build()
		}
		raw["properties"] = props
	}
	if len(required) > 0 {
		raw["required"] = required
	}
	return &Schema{raw: raw}
}

// Property is a single property inside an object schema. Construct with
// String, Integer, Number, Boolean, or Array, then chain constraints.
type Property struct {
	typ         string
	description string
	enum        []any
	minimum     *float64
	maximum     *float64
	items       map[string]any
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{}
	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.def != nil {
		m["default"] = p.def
	}
	return m
}

// String builds a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer builds an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number builds a floating-point property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean builds a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array builds an array property with the given item schema.
//
// Example:
//
//	schema.Array("Channels to include", map[string]any{"type": "string"})
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Enum restricts the property to the given values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the minimum for integer and number properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum for integer and number properties.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}

// Default records a default value. Defaults are advisory: they appear in
// the prompt-facing JSON but validation does not inject them.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}

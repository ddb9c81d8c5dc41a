package reagent

import (
	"context"

	"github.com/journeyworks/reagent/schema"
)

// ToolResult is what a tool returns on success.
type ToolResult struct {
	// Output is the tool's payload. Strings are passed to the model
	// verbatim; anything else is JSON-encoded first.
	Output any

	// Sources are the records the output was derived from. They are
	// deduplicated across the whole run and attached to the final response.
	// May be nil.
	Sources []ResearchSource
}

// Tool is a capability the agent can invoke during a run.
//
// Call receives arguments already validated against ParameterSchema. A
// returned error marks the call failed; the error text is surfaced to the
// model as the observation so it can adjust, and the run continues.
type Tool interface {
	// Name returns the tool's identifier as the model must write it in an
	// action. Must be unique within a Registry.
	Name() string

	// Description tells the model what the tool does and when to use it.
	Description() string

	// ParameterSchema returns the JSON Schema for the tool's arguments.
	ParameterSchema() *schema.Schema

	// Call executes the tool.
	Call(ctx context.Context, args map[string]any) (*ToolResult, error)
}

// ToolFunc is a Tool backed by a plain function. Construct with NewToolFunc.
type ToolFunc struct {
	name        string
	description string
	params      *schema.Schema
	fn          func(ctx context.Context, args map[string]any) (*ToolResult, error)
}

var _ Tool = (*ToolFunc)(nil)

// NewToolFunc wraps fn as a Tool. params may be nil, in which case the tool
// accepts any object.
func NewToolFunc(
	name string,
	description string,
	params *schema.Schema,
	fn func(ctx context.Context, args map[string]any) (*ToolResult, error),
) *ToolFunc {
	if params == nil {
		params = schema.Object(nil)
	}
	return &ToolFunc{
		name:        name,
		description: description,
		params:      params,
		fn:          fn,
	}
}

func (t *ToolFunc) Name() string                    { return t.name }
func (t *ToolFunc) Description() string             { return t.description }
func (t *ToolFunc) ParameterSchema() *schema.Schema { return t.params }

func (t *ToolFunc) Call(ctx context.Context, args map[string]any) (*ToolResult, error) {
	return t.fn(ctx, args)
}

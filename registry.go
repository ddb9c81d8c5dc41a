package reagent

import (
	"context"
	"fmt"
	"strings"
)

// Registry holds the tools available to a run and executes them with
// argument validation. Registration order is preserved: Names and
// DescribeAll list tools in the order they were registered, which is also
// the order the model sees them in the system prompt.
//
// Register is not safe for concurrent use with Execute; register everything
// up front.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. It returns an error if the tool is nil, its name is
// empty, a tool with the same name is already registered, or its parameter
// schema does not compile.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return newValidationError("tool is nil")
	}
	name := tool.Name()
	if name == "" {
		return newValidationError("tool name is empty")
	}
	if _, exists := r.tools[name]; exists {
		return newValidationError("tool %q already registered", name)
	}
	if s := tool.ParameterSchema(); s != nil {
		if err := s.Compile(); err != nil {
			return newValidationError("tool %q: invalid parameter schema: %v", name, err)
		}
	}
	r.order = append(r.order, name)
	r.tools[name] = tool
	return nil
}

// MustRegister is Register but panics on error. Intended for static tool
// sets assembled at startup.
func (r *Registry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// Get returns the named tool, or nil if it is not registered.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// DescribeAll renders the tool catalogue for the system prompt, one block
// per tool:
//
//	- search_transcripts: Search customer journey transcripts.
//	  Parameters: {"type":"object",...}
func (r *Registry) DescribeAll() string {
	var b strings.Builder
	for i, name := range r.order {
		if i > 0 {
			b.WriteString("\n")
		}
		tool := r.tools[name]
		fmt.Fprintf(&b, "- %s: %s\n", name, tool.Description())
		if s := tool.ParameterSchema(); s != nil {
			fmt.Fprintf(&b, "  Parameters: %s\n", s.JSON())
		}
	}
	return b.String()
}

// Execute validates args against the tool's parameter schema and runs it.
//
// An unknown tool name or a validation failure returns an error without
// invoking anything; validation failures carry the individual violations
// (see Violations). Errors from the tool itself are wrapped with the
// execution error code and returned as-is otherwise.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	tool := r.tools[name]
	if tool == nil {
		return nil, newExecutionError("unknown tool %q, available tools: %s", name, strings.Join(r.order, ", "))
	}
	if args == nil {
		args = map[string]any{}
	}
	if s := tool.ParameterSchema(); s != nil {
		if violations := s.Validate(args); len(violations) > 0 {
			return nil, newToolValidationError(name, violations)
		}
	}
	res, err := tool.Call(ctx, args)
	if err != nil {
		return nil, wrapExecutionError(err, "tool %q failed", name)
	}
	if res == nil {
		res = &ToolResult{Output: ""}
	}
	return res, nil
}

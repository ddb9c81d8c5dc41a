package reagent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyworks/reagent/schema"
)

func echoTool(name string) Tool {
	return NewToolFunc(
		name,
		"Echoes the query back.",
		schema.Object(map[string]*schema.Property{
			"query": schema.String("Text to echo"),
		}, "query"),
		func(_ context.Context, args map[string]any) (*ToolResult, error) {
			return &ToolResult{Output: args["query"]}, nil
		},
	)
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	tests := []struct {
		name string
		tool Tool
	}{
		{name: "nil tool", tool: nil},
		{name: "duplicate name", tool: echoTool("echo")},
		{name: "empty name", tool: echoTool("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.tool)
			require.Error(t, err)
			assert.Equal(t, CodeValidation, CodeOf(err))
		})
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryOrderPreserved(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(echoTool(name)))
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, reg.Names())

	catalogue := reg.DescribeAll()
	assert.Less(t, indexOf(catalogue, "zeta"), indexOf(catalogue, "alpha"))
	assert.Less(t, indexOf(catalogue, "alpha"), indexOf(catalogue, "mid"))
	assert.Contains(t, catalogue, "Parameters:")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestRegistryExecute(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	result, err := reg.Execute(context.Background(), "echo", map[string]any{"query": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Output)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	_, err := reg.Execute(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Equal(t, CodeExecution, CodeOf(err))
	// The error names the available tools so the model can pick again.
	assert.Contains(t, err.Error(), "echo")
}

func TestRegistryExecuteValidation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	_, err := reg.Execute(context.Background(), "echo", map[string]any{"query": 42})
	require.Error(t, err)
	assert.Equal(t, CodeToolValidation, CodeOf(err))
	violations := Violations(err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "/query")
}

func TestRegistryExecuteToolError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("index unavailable")
	require.NoError(t, reg.Register(NewToolFunc("broken", "Always fails.", nil,
		func(_ context.Context, _ map[string]any) (*ToolResult, error) {
			return nil, boom
		})))

	_, err := reg.Execute(context.Background(), "broken", nil)
	require.Error(t, err)
	assert.Equal(t, CodeExecution, CodeOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestRegistryExecuteNilArgs(t *testing.T) {
	reg := NewRegistry()
	var received map[string]any
	require.NoError(t, reg.Register(NewToolFunc("probe", "Records args.", nil,
		func(_ context.Context, args map[string]any) (*ToolResult, error) {
			received = args
			return &ToolResult{Output: "ok"}, nil
		})))

	_, err := reg.Execute(context.Background(), "probe", nil)
	require.NoError(t, err)
	assert.NotNil(t, received)
}

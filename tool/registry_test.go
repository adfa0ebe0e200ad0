package tool

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedTool(name string) *FunctionTool {
	return NewFunctionTool(name, "test tool "+name,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return name + " result", nil
		})
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(namedTool("alpha")))
	require.NoError(t, registry.Register(namedTool("beta")))
	assert.Equal(t, 2, registry.Len())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(namedTool("alpha")))

	err := registry.Register(namedTool("alpha"))
	var dupErr *DuplicateToolError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "alpha", dupErr.Name)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryDefinitionsPreserveOrder(t *testing.T) {
	registry := NewRegistry()
	names := []string{"delta", "alpha", "charlie", "beta"}
	for _, name := range names {
		require.NoError(t, registry.Register(namedTool(name)))
	}

	defs := registry.Definitions()
	require.Len(t, defs, len(names))
	for i, def := range defs {
		assert.Equal(t, names[i], def.Name)
		assert.Equal(t, "test tool "+names[i], def.Description)
		assert.NotNil(t, def.Parameters)
	}
}

func TestRegistryInvoke(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterAll(namedTool("alpha"), namedTool("beta")))

	result, err := registry.Invoke(context.Background(), "beta", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "beta result", result)
}

func TestRegistryInvokeUnknownTool(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Invoke(context.Background(), "ghost", map[string]any{})
	var unknownErr *UnknownToolError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "ghost", unknownErr.Name)
}

func TestRegistryInvokeForwardsToolErrors(t *testing.T) {
	failing := NewFunctionTool("failing", "always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", fmt.Errorf("backend unavailable")
		})

	registry := NewRegistry()
	require.NoError(t, registry.Register(failing))

	_, err := registry.Invoke(context.Background(), "failing", map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
}

func TestToolErrorMessages(t *testing.T) {
	withCode := &ToolError{Tool: "echo", Message: "boom", Code: CodeExecution}
	assert.Equal(t, "tool error [EXECUTION_ERROR] in echo: boom", withCode.Error())

	withoutCode := &ToolError{Tool: "echo", Message: "boom"}
	assert.Equal(t, "tool error in echo: boom", withoutCode.Error())
}

package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}
}

func TestFunctionToolCall(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo the given text back", echoSchema(),
		func(_ context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		})

	assert.Equal(t, "echo", echo.Name())
	assert.Equal(t, "Echo the given text back", echo.Description())

	result, err := echo.Call(context.Background(), map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestFunctionToolValidation(t *testing.T) {
	called := false
	echo := NewFunctionTool("echo", "echo", echoSchema(),
		func(_ context.Context, args map[string]any) (string, error) {
			called = true
			return "", nil
		})

	_, err := echo.Call(context.Background(), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
	assert.False(t, called, "function must not run on invalid arguments")

	_, err = echo.Call(context.Background(), map[string]any{"text": 42})
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool("failing", "always fails", echoSchema(),
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", errors.New("backend unavailable")
		})

	_, err := failing.Call(context.Background(), map[string]any{"text": "x"})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "backend unavailable", toolErr.Message)
}

func TestFunctionToolForwardsToolError(t *testing.T) {
	custom := NewToolError("strict", "rate limited", "RATE_LIMITED")
	strict := NewFunctionTool("strict", "strict", echoSchema(),
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", custom
		})

	_, err := strict.Call(context.Background(), map[string]any{"text": "x"})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Same(t, custom, toolErr)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type params struct {
		Query string `json:"query" description:"Search query"`
		Limit int    `json:"limit,omitempty"`
	}

	search := NewFunctionToolFromStruct("search", "search things", params{},
		func(_ context.Context, args map[string]any) (string, error) {
			return args["query"].(string), nil
		})

	props := search.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")

	_, err := search.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

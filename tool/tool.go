// Package tool implements the capability subsystem: named, schema-described
// callables a model may request, plus the registry that validates and executes
// them. Tool failures are normalized so the agent loop can feed them back to
// the model as conversational context instead of crashing the turn.
package tool

import (
	"context"
	"fmt"

	"github.com/steward-ai/steward/internal/schema"
)

// Tool is a single capability exposed to a model.
//
// Implementations should:
//   - Use descriptive snake_case names
//   - Return model-readable text results
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier used in tool call routing.
	Name() string

	// Description is shown to the model to explain when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the accepted arguments.
	Parameters() map[string]any

	// Call executes the tool with schema-validated arguments and returns a
	// text result for the model.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ValidationError is re-exported so callers don't need to import the
// internal schema package.
type ValidationError = schema.ValidationError

// Error codes attached to ToolError for categorization.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// ToolError represents a failure during tool argument validation or
// execution. It is recoverable: the agent loop renders it as Tool-message
// text for the model.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the given details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// UnknownToolError reports a tool call naming a capability that is not
// registered. Recoverable the same way as ToolError.
type UnknownToolError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// DuplicateToolError reports a registration name collision.
type DuplicateToolError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

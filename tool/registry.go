package tool

import (
	"context"
	"time"

	"github.com/steward-ai/steward/logging"
)

// Definition is the model-facing view of a registered tool.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry holds the capability set of one agent. Registration order is
// preserved because it determines the order tools are exposed to the model.
// A Registry is not safe for concurrent registration; register everything at
// construction time, then Invoke freely.
type Registry struct {
	order  []string
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{tools: make(map[string]Tool), logger: opts.Logger}
}

// Register adds a tool, rejecting name collisions with *DuplicateToolError.
func (r *Registry) Register(t Tool) error {
	if _, exists := r.tools[t.Name()]; exists {
		return &DuplicateToolError{Name: t.Name()}
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// RegisterAll registers tools in order, stopping at the first collision.
func (r *Registry) RegisterAll(tools ...Tool) error {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Definitions returns the exposed capability set in registration order,
// suitable for inclusion in model requests.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Invoke looks up the named tool and executes it. An unregistered name
// yields *UnknownToolError; validation and execution failures surface as
// *ToolError. Callers in the agent loop convert every error into Tool-message
// text, so no failure here ever terminates a turn.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		r.logger.Warn("tool.invoke.unknown", "tool", name)
		return "", &UnknownToolError{Name: name}
	}

	start := time.Now()
	r.logger.Debug("tool.invoke.start", "tool", name)

	result, err := t.Call(ctx, args)
	if err != nil {
		r.logger.Error("tool.invoke.error", "tool", name, "error", err.Error())
		return "", err
	}

	r.logger.Info("tool.invoke.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/steward-ai/steward/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object (minimal subset).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request is the normalized model input. Tools travel with every request so
// the provider stays aware of the available capability set (the bind-tools
// contract).
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface agents use to drive generation. Invoke is
// synchronous and blocking: one call, one complete assistant message, which
// may carry zero or more tool calls.
type Model interface {
	Invoke(ctx context.Context, req Request) (core.AIMessage, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is an in-memory Model that replays a fixed sequence of
// assistant messages. Useful for tests and examples: script the exact tool
// call sequence a turn should produce and assert on the recorded requests.
type ScriptedModel struct {
	info Info

	mu       sync.Mutex
	script   []core.AIMessage
	requests []Request
}

// NewScriptedModel constructs a ScriptedModel that returns the given
// messages in order.
func NewScriptedModel(name string, script ...core.AIMessage) *ScriptedModel {
	return &ScriptedModel{
		info:   Info{Name: name, Provider: "scripted", SupportsTools: true},
		script: script,
	}
}

// Invoke implements Model, returning the next scripted message. It records
// the request for later inspection and fails once the script is exhausted.
func (m *ScriptedModel) Invoke(_ context.Context, req Request) (core.AIMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return core.AIMessage{}, fmt.Errorf("scripted model %s: script exhausted after %d calls", m.info.Name, len(m.requests))
	}
	next := m.script[0]
	m.script = m.script[1:]
	return next, nil
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// CallCount returns the number of Invoke calls received.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }

// Package conversation persists per-thread message history. Two Store
// implementations are provided: a volatile in-memory store for tests and
// single-process runs, and a SQLite-backed store for durable history.
package conversation

import (
	"encoding/json"
	"fmt"

	"github.com/steward-ai/steward/core"
)

// Store persists conversations keyed by thread identifier. Implementations
// must be safe for concurrent use; serialization of turns on a single thread
// is the orchestrator's responsibility.
type Store interface {
	// History returns the full message history for the thread, oldest first.
	// An unknown thread yields an empty history, not an error.
	History(threadID string) ([]core.Message, error)

	// Append adds messages to the end of the thread's history, creating the
	// thread if needed.
	Append(threadID string, msgs ...core.Message) error
}

// Message role tags used by the wire encoding.
const (
	roleSystem = "system"
	roleHuman  = "human"
	roleAI     = "ai"
	roleTool   = "tool"
)

// record is the serialized form of a core.Message. The sum type is encoded
// as an envelope with a role tag so it survives a JSON round trip intact.
type record struct {
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	ToolCalls  []core.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
}

// EncodeMessage serializes a message to its JSON wire form.
func EncodeMessage(msg core.Message) ([]byte, error) {
	var rec record
	switch m := msg.(type) {
	case core.SystemMessage:
		rec = record{Role: roleSystem, Content: m.Content}
	case core.HumanMessage:
		rec = record{Role: roleHuman, Content: m.Content}
	case core.AIMessage:
		rec = record{Role: roleAI, Content: m.Content, ToolCalls: m.ToolCalls}
	case core.ToolMessage:
		rec = record{Role: roleTool, Content: m.Content, ToolCallID: m.ToolCallID, ToolName: m.ToolName}
	default:
		return nil, fmt.Errorf("unsupported message type %T", msg)
	}
	return json.Marshal(rec)
}

// DecodeMessage deserializes a message from its JSON wire form.
func DecodeMessage(data []byte) (core.Message, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch rec.Role {
	case roleSystem:
		return core.SystemMessage{Content: rec.Content}, nil
	case roleHuman:
		return core.HumanMessage{Content: rec.Content}, nil
	case roleAI:
		return core.AIMessage{Content: rec.Content, ToolCalls: rec.ToolCalls}, nil
	case roleTool:
		return core.ToolMessage{Content: rec.Content, ToolCallID: rec.ToolCallID, ToolName: rec.ToolName}, nil
	}
	return nil, fmt.Errorf("unknown message role %q", rec.Role)
}

package core

import "github.com/google/uuid"

// Message is a single conversation entry. Concrete message types implement
// the unexported isMessage marker, making the set closed: consumers switch
// over the four variants exhaustively instead of probing for optional fields.
type Message interface {
	isMessage()

	// Text returns the plain text content of the message.
	Text() string
}

// SystemMessage carries instructions for the model. It is rebuilt fresh for
// every agent invocation so time-sensitive content stays current.
type SystemMessage struct {
	Content string
}

func (SystemMessage) isMessage() {}

// Text implements Message.
func (m SystemMessage) Text() string { return m.Content }

// HumanMessage is a user-authored message.
type HumanMessage struct {
	Content string
}

func (HumanMessage) isMessage() {}

// Text implements Message.
func (m HumanMessage) Text() string { return m.Content }

// AIMessage is a model-authored message. ToolCalls, when present, are the
// tool invocations the model requested for this turn, in emission order.
type AIMessage struct {
	Content   string
	ToolCalls []ToolCall
}

func (AIMessage) isMessage() {}

// Text implements Message.
func (m AIMessage) Text() string { return m.Content }

// ToolMessage carries the textual result of one tool invocation back to the
// model. ToolCallID references the originating call from the immediately
// preceding AIMessage.
type ToolMessage struct {
	Content    string
	ToolCallID string
	ToolName   string
}

func (ToolMessage) isMessage() {}

// Text implements Message.
func (m ToolMessage) Text() string { return m.Content }

// ToolCall is a model-issued request to invoke a named tool. Args holds the
// already-decoded argument mapping; provider adapters are responsible for
// parsing the wire-level JSON before a ToolCall reaches the agent loop.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// NewID generates a unique identifier for correlation (tool calls, threads).
func NewID() string { return uuid.NewString() }

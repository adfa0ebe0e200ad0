// Package agent implements the tool-calling loop: a model-backed agent that
// resolves its instruction, invokes the language model, executes any
// requested tools, and feeds the results back until the model produces a
// final text answer.
package agent

import (
	"context"
	"fmt"

	"github.com/steward-ai/steward/core"
	"github.com/steward-ai/steward/logging"
	"github.com/steward-ai/steward/model"
	"github.com/steward-ai/steward/tool"
)

// DefaultMaxIterations bounds the tool-calling loop. A model that keeps
// requesting tools past this many rounds aborts with ToolLoopExceededError.
const DefaultMaxIterations = 25

// ToolLoopExceededError reports an agent whose model kept requesting tool
// calls past the configured iteration cap.
type ToolLoopExceededError struct {
	Agent      string
	Iterations int
}

// Error implements the error interface.
func (e *ToolLoopExceededError) Error() string {
	return fmt.Sprintf("agent %s exceeded %d tool-calling iterations without a final response", e.Agent, e.Iterations)
}

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Instruction is the system prompt, static or dynamically resolved at the
	// start of each request.
	Instruction Instruction

	// MaxIterations caps the number of model invocations per request. Values
	// <= 0 disable the cap.
	MaxIterations int

	// Logger receives structured diagnostics.
	Logger logging.Logger
}

// Agent couples a language model with a tool registry and runs the
// invoke/execute loop until the model answers in plain text. Each request is
// processed on a fresh message list; history management belongs to the
// caller.
type Agent struct {
	name          string
	llm           model.Model
	registry      *tool.Registry
	instruction   Instruction
	maxIterations int
	logger        logging.Logger
}

// New creates an agent with sensible defaults: a generic assistant
// instruction, the default iteration cap, and a no-op logger.
func New(name string, llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Instruction:   NewInstructionFromText(fmt.Sprintf("You are %s, a helpful assistant.", name)),
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		name:          name,
		llm:           llm,
		registry:      registry,
		instruction:   opts.Instruction,
		maxIterations: opts.MaxIterations,
		logger:        opts.Logger,
	}
}

// Name returns the agent's identifier.
func (a *Agent) Name() string { return a.name }

// ProcessRequest runs the tool-calling loop for a single request and returns
// the model's final text answer.
//
// The loop invokes the model, executes every requested tool call in order,
// appends the results as tool messages, and re-invokes until the model stops
// requesting tools. Tool failures are reported back to the model as tool
// message content rather than aborting the loop, so the model can recover or
// explain the failure.
func (a *Agent) ProcessRequest(ctx context.Context, request string) (string, error) {
	system, err := a.instruction.Resolve()
	if err != nil {
		return "", fmt.Errorf("resolve instruction for %s: %w", a.name, err)
	}

	messages := []core.Message{
		core.SystemMessage{Content: system},
		core.HumanMessage{Content: request},
	}
	tools := toolDefinitions(a.registry)

	for iteration := 0; a.maxIterations <= 0 || iteration < a.maxIterations; iteration++ {
		aiMsg, err := a.llm.Invoke(ctx, model.Request{Messages: messages, Tools: tools})
		if err != nil {
			return "", fmt.Errorf("model invocation for %s: %w", a.name, err)
		}
		messages = append(messages, aiMsg)

		if len(aiMsg.ToolCalls) == 0 {
			a.logger.Debug("agent completed", "agent.name", a.name, "agent.iterations", iteration+1)
			if aiMsg.Content == "" {
				return "No response generated", nil
			}
			return aiMsg.Content, nil
		}

		for _, call := range aiMsg.ToolCalls {
			messages = append(messages, a.executeCall(ctx, call))
		}
	}

	return "", &ToolLoopExceededError{Agent: a.name, Iterations: a.maxIterations}
}

// executeCall runs one tool call and always produces a tool message carrying
// either the result or an error description for the model to read.
func (a *Agent) executeCall(ctx context.Context, call core.ToolCall) core.ToolMessage {
	result, err := a.registry.Invoke(ctx, call.Name, call.Args)
	if err != nil {
		a.logger.Warn("tool call failed",
			"agent.name", a.name,
			"tool.name", call.Name,
			"error", err,
		)
		result = fmt.Sprintf("Tool execution error: %s", err)
	}
	return core.ToolMessage{
		Content:    result,
		ToolCallID: call.ID,
		ToolName:   call.Name,
	}
}

// toolDefinitions adapts the registry's definitions to the model request
// format.
func toolDefinitions(registry *tool.Registry) []model.ToolDefinition {
	defs := registry.Definitions()
	out := make([]model.ToolDefinition, len(defs))
	for i, def := range defs {
		out[i] = model.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		}
	}
	return out
}

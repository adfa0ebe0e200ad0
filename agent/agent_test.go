package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/core"
	"github.com/steward-ai/steward/model"
	"github.com/steward-ai/steward/tool"
)

func echoTool() tool.Tool {
	return tool.NewFunctionTool(
		"echo",
		"Echo the input back",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			return fmt.Sprintf("echo: %v", args["text"]), nil
		},
	)
}

func failingTool() tool.Tool {
	return tool.NewFunctionTool(
		"boom",
		"Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(ctx context.Context, args map[string]any) (string, error) {
			return "", errors.New("downstream unavailable")
		},
	)
}

func TestProcessRequestNoToolCalls(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{Content: "Just an answer"},
	)
	registry := tool.NewRegistry()

	a := New("tester", llm, registry)
	result, err := a.ProcessRequest(context.Background(), "say something")
	require.NoError(t, err)
	assert.Equal(t, "Just an answer", result)
	assert.Equal(t, 1, llm.CallCount())

	// First request carries the system instruction and the user request.
	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.IsType(t, core.SystemMessage{}, reqs[0].Messages[0])
	assert.Equal(t, core.HumanMessage{Content: "say something"}, reqs[0].Messages[1])
}

func TestProcessRequestExecutesToolCallsInOrder(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{ToolCalls: []core.ToolCall{
			{ID: "call_a", Name: "echo", Args: map[string]any{"text": "first"}},
			{ID: "call_b", Name: "echo", Args: map[string]any{"text": "second"}},
		}},
		core.AIMessage{Content: "all done"},
	)
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(echoTool()))

	a := New("tester", llm, registry)
	result, err := a.ProcessRequest(context.Background(), "echo twice")
	require.NoError(t, err)
	assert.Equal(t, "all done", result)
	assert.Equal(t, 2, llm.CallCount())

	// The second invocation must see both tool results with matching call IDs,
	// in the order the model requested them.
	second := llm.Requests()[1]
	require.Len(t, second.Messages, 5)

	first, ok := second.Messages[3].(core.ToolMessage)
	require.True(t, ok)
	assert.Equal(t, "call_a", first.ToolCallID)
	assert.Equal(t, "echo: first", first.Content)

	last, ok := second.Messages[4].(core.ToolMessage)
	require.True(t, ok)
	assert.Equal(t, "call_b", last.ToolCallID)
	assert.Equal(t, "echo: second", last.Content)
}

func TestProcessRequestToolFailureFedBack(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{ToolCalls: []core.ToolCall{
			{ID: "call_1", Name: "boom", Args: map[string]any{}},
		}},
		core.AIMessage{Content: "the tool failed, sorry"},
	)
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(failingTool()))

	a := New("tester", llm, registry)
	result, err := a.ProcessRequest(context.Background(), "try it")
	require.NoError(t, err)
	assert.Equal(t, "the tool failed, sorry", result)

	second := llm.Requests()[1]
	toolMsg, ok := second.Messages[3].(core.ToolMessage)
	require.True(t, ok)
	assert.Contains(t, toolMsg.Content, "Tool execution error:")
	assert.Contains(t, toolMsg.Content, "downstream unavailable")
}

func TestProcessRequestUnknownToolFedBack(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{ToolCalls: []core.ToolCall{
			{ID: "call_1", Name: "no_such_tool", Args: map[string]any{}},
		}},
		core.AIMessage{Content: "I cannot use that tool"},
	)
	registry := tool.NewRegistry()

	a := New("tester", llm, registry)
	result, err := a.ProcessRequest(context.Background(), "use a tool")
	require.NoError(t, err)
	assert.Equal(t, "I cannot use that tool", result)

	second := llm.Requests()[1]
	toolMsg, ok := second.Messages[3].(core.ToolMessage)
	require.True(t, ok)
	assert.Contains(t, toolMsg.Content, "Tool execution error:")
	assert.Contains(t, toolMsg.Content, "no_such_tool")
}

func TestProcessRequestIterationCap(t *testing.T) {
	// A model that requests a tool on every invocation never terminates on
	// its own; the cap must abort the loop.
	script := make([]core.AIMessage, 3)
	for i := range script {
		script[i] = core.AIMessage{ToolCalls: []core.ToolCall{
			{ID: fmt.Sprintf("call_%d", i), Name: "echo", Args: map[string]any{"text": "again"}},
		}}
	}
	llm := model.NewScriptedModel("scripted",
		script...)

	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(echoTool()))

	a := New("tester", llm, registry, func(o *Options) {
		o.MaxIterations = 3
	})

	_, err := a.ProcessRequest(context.Background(), "loop forever")
	var loopErr *ToolLoopExceededError
	require.ErrorAs(t, err, &loopErr)
	assert.Equal(t, "tester", loopErr.Agent)
	assert.Equal(t, 3, loopErr.Iterations)
	assert.Equal(t, 3, llm.CallCount())
}

func TestProcessRequestEmptyFinalContent(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{})
	registry := tool.NewRegistry()

	a := New("tester", llm, registry)
	result, err := a.ProcessRequest(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "No response generated", result)
}

func TestDynamicInstructionResolvedPerRequest(t *testing.T) {
	calls := 0
	instr := NewInstructionFromFunc(func() (string, error) {
		calls++
		return fmt.Sprintf("You are run %d.", calls), nil
	})

	llm := model.NewScriptedModel("scripted",
		core.AIMessage{Content: "ok"},
		core.AIMessage{Content: "ok"},
	)
	registry := tool.NewRegistry()

	a := New("tester", llm, registry, func(o *Options) {
		o.Instruction = instr
	})

	_, err := a.ProcessRequest(context.Background(), "first")
	require.NoError(t, err)
	_, err = a.ProcessRequest(context.Background(), "second")
	require.NoError(t, err)

	reqs := llm.Requests()
	assert.Equal(t, core.SystemMessage{Content: "You are run 1."}, reqs[0].Messages[0])
	assert.Equal(t, core.SystemMessage{Content: "You are run 2."}, reqs[1].Messages[0])
}

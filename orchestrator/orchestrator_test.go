package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/core"
	"github.com/steward-ai/steward/model"
)

// fakeHandler stands in for a sub-agent's tool-calling loop.
type fakeHandler struct {
	name     string
	result   string
	err      error
	panicMsg string
	requests []string
}

func (h *fakeHandler) Name() string { return h.name }

func (h *fakeHandler) ProcessRequest(_ context.Context, request string) (string, error) {
	h.requests = append(h.requests, request)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.result, h.err
}

func calendarSubAgent(h Handler) SubAgent {
	return SubAgent{
		Name:    "calendar",
		Handler: h,
		Triggers: []string{
			"calendar", "meeting", "appointment", "event", "schedule", "team standup",
		},
	}
}

func gmailSubAgent(h Handler) SubAgent {
	return SubAgent{
		Name:    "gmail",
		Handler: h,
		Triggers: []string{
			"email", "gmail", "draft", "compose", "send mail",
		},
	}
}

func TestRouteMatchesTriggerCaseInsensitive(t *testing.T) {
	router := NewRouter(
		gmailSubAgent(&fakeHandler{name: "gmail"}),
		calendarSubAgent(&fakeHandler{name: "calendar"}),
	)

	name, ok := router.Route("Please DRAFT an Email to Bob")
	require.True(t, ok)
	assert.Equal(t, "gmail", name)

	name, ok = router.Route("set up a MEETING for friday")
	require.True(t, ok)
	assert.Equal(t, "calendar", name)

	_, ok = router.Route("What's the capital of France?")
	assert.False(t, ok)
}

func TestRouteIsIdempotent(t *testing.T) {
	router := NewRouter(calendarSubAgent(&fakeHandler{name: "calendar"}))

	first, ok1 := router.Route("schedule something")
	second, ok2 := router.Route("schedule something")
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestRouteTieBreakFirstRegisteredWins(t *testing.T) {
	// Both sub-agents claim the trigger "organize"; registration order must
	// decide, deterministically.
	a := SubAgent{Name: "first", Handler: &fakeHandler{name: "first"}, Triggers: []string{"organize"}}
	b := SubAgent{Name: "second", Handler: &fakeHandler{name: "second"}, Triggers: []string{"organize"}}

	router := NewRouter(a, b)
	for i := 0; i < 10; i++ {
		name, ok := router.Route("please organize my day")
		require.True(t, ok)
		assert.Equal(t, "first", name)
	}
}

func TestChatDelegatesToCalendarAgent(t *testing.T) {
	handler := &fakeHandler{name: "calendar", result: "Event created: Team Standup (ID: ev-1)"}
	llm := model.NewScriptedModel("scripted")

	o := New(llm, []SubAgent{calendarSubAgent(handler)})

	answer, err := o.Chat(context.Background(),
		"Create a meeting called Team Standup tomorrow at 10am for 30 minutes", "t1")
	require.NoError(t, err)

	assert.Equal(t, "Calendar task completed:\n\nEvent created: Team Standup (ID: ev-1)", answer)
	require.Len(t, handler.requests, 1)
	assert.Equal(t, "Create a meeting called Team Standup tomorrow at 10am for 30 minutes", handler.requests[0])

	// Delegation path never touches the orchestrator's own model.
	assert.Equal(t, 0, llm.CallCount())
}

func TestChatAnswersDirectlyWithoutTriggers(t *testing.T) {
	handler := &fakeHandler{name: "calendar", result: "unused"}
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{Content: "Paris is the capital of France."},
	)

	o := New(llm, []SubAgent{calendarSubAgent(handler)})

	answer, err := o.Chat(context.Background(), "What's the capital of France?", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answer)
	assert.Empty(t, handler.requests)

	// The direct path invokes the model once, with no tools bound.
	require.Equal(t, 1, llm.CallCount())
	req := llm.Requests()[0]
	assert.Empty(t, req.Tools)
	assert.IsType(t, core.SystemMessage{}, req.Messages[0])
}

func TestChatDelegationFailureBecomesMessage(t *testing.T) {
	handler := &fakeHandler{name: "gmail", err: errors.New("imap connection refused")}
	llm := model.NewScriptedModel("scripted")

	o := New(llm, []SubAgent{gmailSubAgent(handler)})

	answer, err := o.Chat(context.Background(), "draft an email to Bob", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Error processing Gmail task: imap connection refused", answer)

	// The session stays usable: a later turn on the same thread still works.
	handler.err = nil
	handler.result = "Draft saved"
	answer, err = o.Chat(context.Background(), "draft an email to Bob again", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Gmail task completed:\n\nDraft saved", answer)
}

func TestChatDelegationPanicBecomesMessage(t *testing.T) {
	handler := &fakeHandler{name: "gmail", panicMsg: "nil dereference in toolkit"}
	llm := model.NewScriptedModel("scripted")

	o := New(llm, []SubAgent{gmailSubAgent(handler)})

	answer, err := o.Chat(context.Background(), "compose a message", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Error processing Gmail task: nil dereference in toolkit", answer)
}

func TestChatPersistsHistoryAcrossTurns(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{Content: "Hello! How can I help?"},
		core.AIMessage{Content: "You said hi earlier."},
	)

	o := New(llm, nil)

	_, err := o.Chat(context.Background(), "hi", "t1")
	require.NoError(t, err)
	_, err = o.Chat(context.Background(), "what did I say?", "t1")
	require.NoError(t, err)

	// The second invocation sees the whole first turn: system, human, ai,
	// then the new human message.
	second := llm.Requests()[1]
	require.Len(t, second.Messages, 4)
	assert.IsType(t, core.SystemMessage{}, second.Messages[0])
	assert.Equal(t, core.HumanMessage{Content: "hi"}, second.Messages[1])
	assert.Equal(t, core.AIMessage{Content: "Hello! How can I help?"}, second.Messages[2])
	assert.Equal(t, core.HumanMessage{Content: "what did I say?"}, second.Messages[3])
}

func TestChatThreadsAreIndependent(t *testing.T) {
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{Content: "first thread"},
		core.AIMessage{Content: "second thread"},
	)

	o := New(llm, nil)

	_, err := o.Chat(context.Background(), "hello from t1", "t1")
	require.NoError(t, err)
	_, err = o.Chat(context.Background(), "hello from t2", "t2")
	require.NoError(t, err)

	// Each thread starts from its own empty history.
	second := llm.Requests()[1]
	require.Len(t, second.Messages, 2)
	assert.Equal(t, core.HumanMessage{Content: "hello from t2"}, second.Messages[1])
}

func TestChatDelegationAcknowledgmentPersisted(t *testing.T) {
	handler := &fakeHandler{name: "calendar", result: "done"}
	llm := model.NewScriptedModel("scripted",
		core.AIMessage{Content: "General answer."},
	)

	o := New(llm, []SubAgent{calendarSubAgent(handler)})

	_, err := o.Chat(context.Background(), "schedule a sync", "t1")
	require.NoError(t, err)

	// A follow-up non-delegated turn must replay both the acknowledgment and
	// the completion message in history.
	_, err = o.Chat(context.Background(), "thanks!", "t1")
	require.NoError(t, err)

	req := llm.Requests()[0]
	var contents []string
	for _, msg := range req.Messages {
		if ai, ok := msg.(core.AIMessage); ok {
			contents = append(contents, ai.Content)
		}
	}
	require.Len(t, contents, 2)
	assert.Contains(t, contents[0], "Delegating to Calendar agent...")
	assert.Contains(t, contents[1], "Calendar task completed:")
}

func TestSystemPromptListsSubAgents(t *testing.T) {
	o := New(model.NewScriptedModel("scripted"), []SubAgent{
		gmailSubAgent(&fakeHandler{name: "gmail"}),
		calendarSubAgent(&fakeHandler{name: "calendar"}),
	})

	prompt := o.systemPrompt()
	assert.Contains(t, prompt, "- gmail: handles tasks containing 'email'")
	assert.Contains(t, prompt, "- calendar: handles tasks containing 'calendar'")
}

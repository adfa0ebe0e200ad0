// Package orchestrator implements the conversation state machine: each turn
// starts in the orchestrate state, either answers directly with the
// orchestrator's own model or transfers to a sub-agent's delegate state, and
// terminates in end with the turn's answer appended to the persisted
// conversation.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/steward-ai/steward/conversation"
	"github.com/steward-ai/steward/core"
	"github.com/steward-ai/steward/logging"
	"github.com/steward-ai/steward/model"
)

// State machine node names. One delegate node exists per registered
// sub-agent, named by delegateState.
const (
	stateOrchestrate = "orchestrate"
	stateEnd         = "end"
)

func delegateState(agentName string) string {
	return "delegate_" + agentName
}

// turnState is the transient workflow state for a single turn. It is created
// fresh per Chat call, threaded through the node transitions, and discarded
// once the final message has been extracted; only the conversation store
// persists across turns.
type turnState struct {
	messages     []core.Message
	currentTask  string
	delegatedTo  string
	taskComplete bool
}

// Options configures an Orchestrator instance.
type Options struct {
	// Store persists conversation history per thread. Defaults to an
	// in-memory store.
	Store conversation.Store

	// Logger receives structured diagnostics.
	Logger logging.Logger
}

// Orchestrator routes user messages between its own conversational model and
// the registered sub-agents. Turns on the same thread are serialized with a
// per-thread lock; turns on distinct threads run independently.
type Orchestrator struct {
	llm    model.Model
	router *Router
	store  conversation.Store
	logger logging.Logger

	mu          sync.Mutex
	threadLocks map[string]*sync.Mutex
}

// New creates an orchestrator over an immutable sub-agent table. The table
// order is the router's tie-break order.
func New(llm model.Model, subAgents []SubAgent, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Store:  conversation.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		llm:         llm,
		router:      NewRouter(subAgents...),
		store:       opts.Store,
		logger:      opts.Logger,
		threadLocks: make(map[string]*sync.Mutex),
	}
}

// Router exposes the delegation router, mainly for tests and diagnostics.
func (o *Orchestrator) Router() *Router { return o.router }

// Chat runs one conversation turn: append the user message, drive the state
// machine to the end state, persist what the turn produced, and return the
// last AI-authored message as the answer.
func (o *Orchestrator) Chat(ctx context.Context, message, threadID string) (string, error) {
	lock := o.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	history, err := o.store.History(threadID)
	if err != nil {
		return "", fmt.Errorf("load history for thread %s: %w", threadID, err)
	}

	state := turnState{messages: history}
	if !hasSystemMessage(state.messages) {
		state.messages = append([]core.Message{core.SystemMessage{Content: o.systemPrompt()}}, state.messages...)
	}
	state.messages = append(state.messages, core.HumanMessage{Content: message})
	persistFrom := len(state.messages) - 1
	if len(history) == 0 {
		persistFrom = 0
	}

	for node := stateOrchestrate; node != stateEnd; {
		switch node {
		case stateOrchestrate:
			node, err = o.orchestrateNode(ctx, &state)
			if err != nil {
				return "", err
			}
		default:
			node = o.delegateNode(ctx, &state)
		}
	}

	if err := o.store.Append(threadID, state.messages[persistFrom:]...); err != nil {
		return "", fmt.Errorf("persist turn for thread %s: %w", threadID, err)
	}

	if final, ok := core.LastAI(state.messages); ok {
		return final.Content, nil
	}
	return "No response generated", nil
}

// orchestrateNode decides the turn's path: delegation to a sub-agent with an
// interim acknowledgment, or a direct conversational answer.
func (o *Orchestrator) orchestrateNode(ctx context.Context, state *turnState) (string, error) {
	last := state.messages[len(state.messages)-1]
	if human, ok := last.(core.HumanMessage); ok {
		if name, matched := o.router.Route(human.Content); matched {
			display := titleCase(name)
			ack := fmt.Sprintf(
				"I'll help you with that %s task. Let me process your request...\n\nDelegating to %s agent...",
				display, display,
			)
			state.messages = append(state.messages, core.AIMessage{Content: ack})
			state.currentTask = human.Content
			state.delegatedTo = name
			o.logger.Info("delegating turn", "orchestrator.agent", name)
			return delegateState(name), nil
		}
	}

	response, err := o.llm.Invoke(ctx, model.Request{Messages: state.messages})
	if err != nil {
		return "", fmt.Errorf("orchestrator model invocation: %w", err)
	}
	state.messages = append(state.messages, response)
	state.taskComplete = true
	return stateEnd, nil
}

// delegateNode runs the selected sub-agent's tool-calling loop on the stored
// task text. Any failure, including a panic inside the handler, becomes a
// user-visible AI message; delegation never terminates the session.
func (o *Orchestrator) delegateNode(ctx context.Context, state *turnState) string {
	name := state.delegatedTo
	display := titleCase(name)

	result, err := o.runHandler(ctx, name, state.currentTask)

	var content string
	if err != nil {
		o.logger.Warn("delegation failed", "orchestrator.agent", name, "error", err)
		content = fmt.Sprintf("Error processing %s task: %s", display, err)
	} else {
		content = fmt.Sprintf("%s task completed:\n\n%s", display, result)
	}

	state.messages = append(state.messages, core.AIMessage{Content: content})
	state.currentTask = ""
	state.delegatedTo = ""
	state.taskComplete = true
	return stateEnd
}

// runHandler isolates the sub-agent call so a panicking handler is reported
// as a delegation failure instead of unwinding the interactive loop.
func (o *Orchestrator) runHandler(ctx context.Context, name, task string) (result string, err error) {
	sa, ok := o.router.SubAgent(name)
	if !ok {
		return "", fmt.Errorf("unknown sub-agent %s", name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return sa.Handler.ProcessRequest(ctx, task)
}

// systemPrompt describes the orchestrator's role and the available
// sub-agents with their trigger phrases.
func (o *Orchestrator) systemPrompt() string {
	var descriptions []string
	for _, sa := range o.router.SubAgents() {
		triggers := make([]string, len(sa.Triggers))
		for i, t := range sa.Triggers {
			triggers[i] = fmt.Sprintf("'%s'", t)
		}
		descriptions = append(descriptions,
			fmt.Sprintf("- %s: handles tasks containing %s", sa.Name, strings.Join(triggers, ", ")))
	}

	agentsList := "No specialized agents available"
	if len(descriptions) > 0 {
		agentsList = strings.Join(descriptions, "\n")
	}

	return fmt.Sprintf(`You are a helpful conversational assistant that can chat about any topic and delegate specialized tasks to sub-agents when needed.

Your capabilities:
1. Have natural conversations about any topic
2. Answer questions using your knowledge
3. Delegate to specialized agents when users ask for specific tasks

Available specialized agents:
%s

IMPORTANT: Only delegate to a specialized agent when the user explicitly asks for that specific task.
For general questions or conversations, respond directly.

Otherwise, just have a friendly conversation!`, agentsList)
}

// threadLock returns the mutex serializing turns on one thread identifier.
func (o *Orchestrator) threadLock(threadID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.threadLocks[threadID]
	if !ok {
		lock = &sync.Mutex{}
		o.threadLocks[threadID] = lock
	}
	return lock
}

// hasSystemMessage reports whether the history already carries a system
// message.
func hasSystemMessage(msgs []core.Message) bool {
	for _, msg := range msgs {
		if _, ok := msg.(core.SystemMessage); ok {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of an agent name for user-facing
// text ("gmail" becomes "Gmail").
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

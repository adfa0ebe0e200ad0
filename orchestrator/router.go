package orchestrator

import (
	"context"
	"strings"
)

// Handler processes one delegated request and returns the finished answer
// text. *agent.Agent satisfies this; tests substitute lightweight fakes.
type Handler interface {
	Name() string
	ProcessRequest(ctx context.Context, request string) (string, error)
}

// SubAgent binds a handler to the trigger phrases that cause delegation to
// it. Registered once at orchestrator construction and immutable thereafter.
type SubAgent struct {
	Name     string
	Handler  Handler
	Triggers []string
}

// Router decides, per user message, whether to delegate and to whom.
// Matching is case-insensitive substring search over an ordered trigger
// table; the first registered sub-agent with any matching trigger wins. A
// trigger that happens to be a substring of unrelated text produces a false
// positive; that imprecision is accepted in exchange for determinism.
type Router struct {
	subAgents []SubAgent
}

// NewRouter builds a router over the given sub-agents in registration order.
func NewRouter(subAgents ...SubAgent) *Router {
	return &Router{subAgents: subAgents}
}

// Route returns the name of the sub-agent the message should be delegated
// to, or false if no trigger matches. Pure with respect to the message and
// the registered trigger table.
func (r *Router) Route(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, sa := range r.subAgents {
		for _, trigger := range sa.Triggers {
			if strings.Contains(lower, strings.ToLower(trigger)) {
				return sa.Name, true
			}
		}
	}
	return "", false
}

// SubAgent looks up a registered sub-agent by name.
func (r *Router) SubAgent(name string) (SubAgent, bool) {
	for _, sa := range r.subAgents {
		if sa.Name == name {
			return sa, true
		}
	}
	return SubAgent{}, false
}

// SubAgents returns the registered sub-agents in registration order.
func (r *Router) SubAgents() []SubAgent {
	return r.subAgents
}

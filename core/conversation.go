package core

// Conversation is the append-only message history of one chat thread.
// History grows without bound; trimming or summarization is left to callers.
type Conversation struct {
	ThreadID string
	Messages []Message
}

// NewConversation creates an empty conversation for the given thread.
func NewConversation(threadID string) *Conversation {
	return &Conversation{ThreadID: threadID}
}

// Append adds messages to the end of the history.
func (c *Conversation) Append(msgs ...Message) {
	c.Messages = append(c.Messages, msgs...)
}

// LastAI returns the most recent AI-authored message, if any.
func (c *Conversation) LastAI() (AIMessage, bool) {
	return LastAI(c.Messages)
}

// LastAI returns the most recent AIMessage in msgs, if any.
func LastAI(msgs []Message) (AIMessage, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if ai, ok := msgs[i].(AIMessage); ok {
			return ai, true
		}
	}
	return AIMessage{}, false
}

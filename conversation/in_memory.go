package conversation

import (
	"sync"

	"github.com/steward-ai/steward/core"
)

// InMemoryStore is a volatile Store keeping histories in a process-local
// map. Safe for concurrent access; returned slices are defensive copies so
// callers cannot mutate internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]core.Message
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{threads: make(map[string][]core.Message)}
}

// History implements Store.
func (s *InMemoryStore) History(threadID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.threads[threadID]
	out := make([]core.Message, len(history))
	copy(out, history)
	return out, nil
}

// Append implements Store.
func (s *InMemoryStore) Append(threadID string, msgs ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append(s.threads[threadID], msgs...)
	return nil
}

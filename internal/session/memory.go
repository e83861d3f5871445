package session

import (
	"context"
	"sync"
)

// MemoryStore keeps dialogue state in a process-wide map. This is the
// default store; it matches the one-process deployment and is what tests
// use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Dialogue
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Dialogue)}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (Dialogue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.sessions[chatID]
	if !ok {
		return Idle(), nil
	}
	return d, nil
}

func (s *MemoryStore) Set(_ context.Context, chatID int64, d Dialogue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = d
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}

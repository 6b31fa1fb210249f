package switchstate

import (
	"context"
	"sync"
)

// MemoryStore is a process-local backend for tests and single-run setups.
type MemoryStore struct {
	mu sync.Mutex
	st State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: Idle()}
}

func (s *MemoryStore) Get(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st, nil
}

func (s *MemoryStore) Set(ctx context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	return s.Set(ctx, Idle())
}

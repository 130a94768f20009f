package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory DocumentStore for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	document string
	set      bool

	// FailWrites makes SaveDocument fail, simulating an unreachable store.
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveDocument stores the document in memory.
func (s *MemoryStore) SaveDocument(ctx context.Context, markdown string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return &Error{Op: "set", Err: context.DeadlineExceeded}
	}
	s.document = markdown
	s.set = true
	return nil
}

// LoadDocument returns the stored document, or ErrNotFound.
func (s *MemoryStore) LoadDocument(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", ErrNotFound
	}
	return s.document, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

var _ DocumentStore = (*MemoryStore)(nil)

package mfa

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu         sync.Mutex
	challenges map[uint64]Challenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[uint64]Challenge)}
}

func (s *MemoryStore) Save(_ context.Context, userID uint64, ch *Challenge) error {
	s.mu.Lock()
	s.challenges[userID] = *ch
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID uint64) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := ch
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uint64) error {
	s.mu.Lock()
	delete(s.challenges, userID)
	s.mu.Unlock()
	return nil
}

package blacklist

import (
	"context"
	"sync"
)

// Blacklist is the token revocation set. It is constructed once at
// process start and injected into the token service, never held as a
// package singleton, so tests can swap and reset it.
type Blacklist interface {
	Add(ctx context.Context, token string) error
	Contains(ctx context.Context, token string) (bool, error)
}

type Memory struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{set: make(map[string]struct{})}
}

func (m *Memory) Add(_ context.Context, token string) error {
	m.mu.Lock()
	m.set[token] = struct{}{}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Contains(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	_, ok := m.set[token]
	m.mu.RUnlock()
	return ok, nil
}

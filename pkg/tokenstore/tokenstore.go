package tokenstore

import (
	"context"
	"sync"
	"time"
)

// Denylist records tokens revoked by logout until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Close() error
}

// MemoryDenylist is a process-local denylist for tests and single-node
// deployments without Redis.
type MemoryDenylist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{tokens: make(map[string]time.Time)}
}

func (m *MemoryDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = time.Now().Add(ttl)
	return nil
}

func (m *MemoryDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	expiry, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		m.mu.Lock()
		delete(m.tokens, token)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (m *MemoryDenylist) Close() error {
	return nil
}

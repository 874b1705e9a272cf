package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process SummaryCache and token revocation list.
type Memory struct {
	ttl time.Duration

	mu        sync.Mutex
	summaries   map[string]map[string]memoryEntry
	generations map[string]uint64
	revoked     map[string]time.Time
}

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:         ttl,
		summaries:   make(map[string]map[string]memoryEntry),
		generations: make(map[string]uint64),
		revoked:     make(map[string]time.Time),
	}
}

func (m *Memory) Get(_ context.Context, userID, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.summaries[userID][key]
	if !ok {
		return nil, false
	}
	if !nowFunc().Before(entry.expiresAt) {
		delete(m.summaries[userID], key)
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) Generation(_ context.Context, userID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[userID]
}

func (m *Memory) Set(_ context.Context, userID, key string, gen uint64, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[userID] != gen {
		return
	}

	entries, ok := m.summaries[userID]
	if !ok {
		entries = make(map[string]memoryEntry)
		m.summaries[userID] = entries
	}
	entries[key] = memoryEntry{value: value, expiresAt: nowFunc().Add(m.ttl)}
}

func (m *Memory) Invalidate(_ context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.summaries, userID)
	m.generations[userID]++
}

// Revoke remembers tokenID until the given time.
func (m *Memory) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := nowFunc()
	for id, exp := range m.revoked {
		if !now.Before(exp) {
			delete(m.revoked, id)
		}
	}
	m.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (m *Memory) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[tokenID]
	return ok && nowFunc().Before(exp), nil
}

package sessionredis

import (
	"context"
	"sync"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// MemoryStore is an in-process SessionStore for tests and single-node
// development runs.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	record    domain.SessionRecord
	expiresAt time.Time
	hasExpiry bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	if now != nil {
		m.now = now
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok {
		return nil, nil
	}
	if entry.hasExpiry && m.now().After(entry.expiresAt) {
		delete(m.entries, sessionID)
		return nil, nil
	}
	record := entry.record
	return &record, nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, record domain.SessionRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{record: record}
	if ttl > 0 {
		entry.hasExpiry = true
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[sessionID] = entry
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

var _ domain.SessionStore = (*MemoryStore)(nil)

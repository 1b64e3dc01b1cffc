package ledger

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process Ledger backend: a map guarded by a single mutex.
// Contention is per-workflow-step and low, so one lock covers all keys.
// Expiry is lazy (checked at Verify/Peek) plus the optional SweepExpired.
type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry

	// now is swappable for tests.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (m *Memory) Put(_ context.Context, key string, payload []byte, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = Entry{
		Payload:   payload,
		Code:      code,
		ExpiresAt: m.now().Add(ttl),
	}
	return nil
}

func (m *Memory) Peek(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (m *Memory) Verify(_ context.Context, key, code string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	if m.now().After(entry.ExpiresAt) {
		delete(m.entries, key)
		return nil, ErrExpired
	}

	if entry.Code != code {
		// Retained: the caller may retry until the deadline.
		return nil, ErrCodeMismatch
	}

	delete(m.entries, key)
	return entry.Payload, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *Memory) SweepExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var removed int
	for key, entry := range m.entries {
		if now.After(entry.ExpiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of entries currently held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

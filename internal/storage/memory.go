package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps documents in process. Used by tests and when no database
// path is configured.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot []byte
	savedAt  time.Time
	profile  []byte

	// FailSaves makes every save return ErrUnavailable.
	FailSaves bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveSnapshot(_ context.Context, body []byte, savedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrUnavailable
	}
	m.snapshot = append([]byte(nil), body...)
	m.savedAt = savedAt
	return nil
}

func (m *MemoryStore) LoadSnapshot(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return nil, nil
	}
	return append([]byte(nil), m.snapshot...), nil
}

func (m *MemoryStore) ClearSnapshot(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	m.savedAt = time.Time{}
	return nil
}

func (m *MemoryStore) SaveProfile(_ context.Context, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrUnavailable
	}
	m.profile = append([]byte(nil), body...)
	return nil
}

func (m *MemoryStore) LoadProfile(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil, nil
	}
	return append([]byte(nil), m.profile...), nil
}

// SavedAt reports when the snapshot was last written.
func (m *MemoryStore) SavedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.savedAt
}

func (m *MemoryStore) Close() error { return nil }

package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. A positive quota caps the total
// number of value bytes, mimicking browser storage limits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	quota  int
	failer func(key string) error
}

func NewMemoryStore(quotaBytes int) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]string),
		quota: quotaBytes,
	}
}

// FailWith installs a hook consulted before every Set; a non-nil return
// aborts the write. Passing nil removes the hook.
func (m *MemoryStore) FailWith(fn func(key string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failer = fn
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failer != nil {
		if err := m.failer(key); err != nil {
			return err
		}
	}

	if m.quota > 0 {
		used := 0
		for k, v := range m.data {
			if k != key {
				used += len(v)
			}
		}
		if used+len(value) > m.quota {
			return ErrQuotaExceeded
		}
	}

	m.data[key] = value
	return nil
}

// Delete removes a key; it exists for tests and tooling.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

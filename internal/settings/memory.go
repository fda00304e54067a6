// SPDX-License-Identifier: MPL-2.0

package settings

import "sync"

// MemoryStore is an in-memory Store. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore returns a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial map[string]any) *MemoryStore {
	m := &MemoryStore{values: make(map[string]any, len(initial))}
	for k, v := range initial {
		m.values[k] = v
	}
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(key string, def any) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

// Set implements Store.
func (m *MemoryStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
	return nil
}

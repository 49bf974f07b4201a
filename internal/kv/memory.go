package kv

import (
	"fmt"
	"sync"
)

// Memory is an in-process Store. It backs tests and the "memory" backend,
// which forgets everything on exit.
type Memory struct {
	mu     sync.RWMutex
	idx    *index
	values map[string]string
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := applyOptions(opts)
	return &Memory{
		idx:    newIndex(o.quota),
		values: make(map[string]string),
	}
}

// Count returns the number of stored entries.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.idx.keys)
}

// KeyAt returns the key at position i.
func (m *Memory) KeyAt(i int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idx.keyAt(i)
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := checkUTF8(key, value); err != nil {
		return err
	}
	if !m.idx.fits(key, value) {
		return fmt.Errorf("kv: set %q: %w", key, ErrQuotaExceeded)
	}
	m.idx.put(key, entrySize(key, value))
	m.values[key] = value
	return nil
}

// Clear removes every entry.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.idx.reset()
	m.values = make(map[string]string)
	return nil
}

// Close marks the store closed. Reads keep working.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

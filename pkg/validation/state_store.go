package validation

import (
	"context"
	"sync"
)

// StateStore persists one OptionSet per container id.
type StateStore interface {
	// Load returns ErrOptionsNotFound when nothing is stored for id.
	Load(ctx context.Context, id string) (*OptionSet, error)
	Save(ctx context.Context, id string, set *OptionSet) error
	Delete(ctx context.Context, id string) error
}

// MemoryStateStore keeps option sets in process memory.
type MemoryStateStore struct {
	mu   sync.RWMutex
	sets map[string]*OptionSet
}

// NewMemoryStateStore creates an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{sets: make(map[string]*OptionSet)}
}

// Load returns a copy of the stored set.
func (m *MemoryStateStore) Load(_ context.Context, id string) (*OptionSet, error) {
	m.mu.RLock()
	set, ok := m.sets[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrOptionsNotFound
	}
	return set.Clone(), nil
}

// Save stores a copy of set.
func (m *MemoryStateStore) Save(_ context.Context, id string, set *OptionSet) error {
	cp := set.Clone()
	if cp == nil {
		cp = NewOptionSet()
	}
	cp.strip()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[id] = cp
	return nil
}

// Delete removes the set stored for id.
func (m *MemoryStateStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, id)
	return nil
}

// Len returns the number of stored sets.
func (m *MemoryStateStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets)
}

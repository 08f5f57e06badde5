package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps the registry in process memory. Used in tests and for
// single-user local runs without a database file.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]map[string]Entry
	active  map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]map[string]Entry),
		active:  make(map[string]string),
	}
}

func (m *MemoryStore) List(_ context.Context, userID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries[userID] {
		out = append(out, e)
	}
	// Same ordering as the sqlite store.
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, userID, sheetID string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID][sheetID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) Put(_ context.Context, userID string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[userID] == nil {
		m.entries[userID] = make(map[string]Entry)
	}
	m.entries[userID][e.ID] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, sheetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[userID], sheetID)
	return nil
}

func (m *MemoryStore) ActiveID(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[userID], nil
}

func (m *MemoryStore) SetActiveID(_ context.Context, userID, sheetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sheetID == "" {
		delete(m.active, userID)
		return nil
	}
	m.active[userID] = sheetID
	return nil
}

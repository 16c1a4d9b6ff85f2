package dictionary

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[Kind]map[int64]string
}

// NewMemoryStore creates an empty in-memory dictionary store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[Kind]map[int64]string{
		KindFirstName:  {},
		KindLastName:   {},
		KindPatronymic: {},
	}}
}

// Put records one dictionary entry.
func (s *MemoryStore) Put(kind Kind, id int64, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[kind][id] = value
}

func (s *MemoryStore) Lookup(_ context.Context, kind Kind, ids []int64) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if v, ok := s.tables[kind][id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

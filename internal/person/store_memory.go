package person

import (
	"context"
	"sync"

	dErrors "lineage/pkg/domain-errors"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	persons map[int64]*Person
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{persons: make(map[int64]*Person)}
}

// Put inserts or replaces a person.
func (s *MemoryStore) Put(p *Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.persons[p.ID] = &cp
}

func (s *MemoryStore) GetByID(_ context.Context, id int64, scope Scope) (*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.persons[id]
	if !ok || !scope.Admits(p) {
		return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListByIDs(_ context.Context, ids []int64, scope Scope) ([]*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Person, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, ok := s.persons[id]
		if !ok || !scope.Admits(p) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

package relationship

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	edges map[int64]*Relationship
}

// NewMemoryStore creates an empty in-memory edge store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{edges: make(map[int64]*Relationship)}
}

// Put inserts or replaces an edge.
func (s *MemoryStore) Put(r *Relationship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.edges[r.ID] = &cp
}

// Delete removes an edge if present.
func (s *MemoryStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, id)
}

func (s *MemoryStore) EdgesTouching(_ context.Context, personID int64) ([]*Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Relationship
	for _, r := range s.edges {
		if r.Type != TypeParent && r.Type != TypeSpouse {
			continue
		}
		if r.Person1ID != personID && r.Person2ID != personID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

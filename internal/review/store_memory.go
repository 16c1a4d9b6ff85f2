package review

import (
	"context"
	"sort"
	"sync"

	dErrors "lineage/pkg/domain-errors"
)

// MemoryConflictStore is an in-memory ConflictStore for tests.
type MemoryConflictStore struct {
	mu   sync.RWMutex
	rows map[int64]*Conflict
}

// NewMemoryConflictStore creates an empty in-memory conflict store.
func NewMemoryConflictStore() *MemoryConflictStore {
	return &MemoryConflictStore{rows: make(map[int64]*Conflict)}
}

// Seed inserts a row directly.
func (s *MemoryConflictStore) Seed(c *Conflict) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.rows[c.ID] = &cp
}

func (s *MemoryConflictStore) GetByID(_ context.Context, id int64) (*Conflict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "conflict not found")
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryConflictStore) Update(_ context.Context, c *Conflict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[c.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "conflict not found")
	}
	cp := *c
	s.rows[c.ID] = &cp
	return nil
}

func (s *MemoryConflictStore) List(_ context.Context, status Status) ([]*Conflict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Conflict
	for _, c := range s.rows {
		if c.Status == status {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > listLimit {
		out = out[:listLimit]
	}
	return out, nil
}

// MemoryDuplicateStore is an in-memory DuplicateStore for tests.
type MemoryDuplicateStore struct {
	mu   sync.RWMutex
	rows map[int64]*EventDuplicate
}

// NewMemoryDuplicateStore creates an empty in-memory duplicate store.
func NewMemoryDuplicateStore() *MemoryDuplicateStore {
	return &MemoryDuplicateStore{rows: make(map[int64]*EventDuplicate)}
}

// Seed inserts a row directly.
func (s *MemoryDuplicateStore) Seed(d *EventDuplicate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.rows[d.ID] = &cp
}

func (s *MemoryDuplicateStore) GetByID(_ context.Context, id int64) (*EventDuplicate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.rows[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "event duplicate not found")
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryDuplicateStore) Update(_ context.Context, d *EventDuplicate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[d.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "event duplicate not found")
	}
	cp := *d
	s.rows[d.ID] = &cp
	return nil
}

func (s *MemoryDuplicateStore) List(_ context.Context, status Status) ([]*EventDuplicate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*EventDuplicate
	for _, d := range s.rows {
		if d.Status == status {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > listLimit {
		out = out[:listLimit]
	}
	return out, nil
}

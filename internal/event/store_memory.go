package event

import (
	"context"
	"sort"
	"sync"
	"time"

	dErrors "lineage/pkg/domain-errors"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64]*Event
}

// NewMemoryStore creates an empty in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, events: make(map[int64]*Event)}
}

func (s *MemoryStore) Insert(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.events[e.ID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "event not found")
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = time.Now()
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

// participants must be provided externally for ListByParticipant; the memory
// store pairs with a MemoryParticipantStore in tests.
func (s *MemoryStore) ListByParticipant(_ context.Context, _ int64) ([]*Event, error) {
	return nil, dErrors.New(dErrors.CodeInternal, "not supported by memory store")
}

// MemoryParticipantStore is an in-memory ParticipantStore for tests.
type MemoryParticipantStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*Participant
}

// NewMemoryParticipantStore creates an empty in-memory participant store.
func NewMemoryParticipantStore() *MemoryParticipantStore {
	return &MemoryParticipantStore{nextID: 1, rows: make(map[int64]*Participant)}
}

// Seed inserts a row directly, for arranging pre-existing state in tests.
func (s *MemoryParticipantStore) Seed(p *Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	cp := *p
	s.rows[p.ID] = &cp
}

func (s *MemoryParticipantStore) ListByEventRole(_ context.Context, eventID, roleID int64) ([]*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Participant
	for _, p := range s.rows {
		if p.EventID == eventID && p.RoleID == roleID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryParticipantStore) ListByEvent(_ context.Context, eventID int64) ([]*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Participant
	for _, p := range s.rows {
		if p.EventID == eventID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryParticipantStore) Insert(_ context.Context, p *Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *MemoryParticipantStore) Update(_ context.Context, p *Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "participant not found")
	}
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *MemoryParticipantStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

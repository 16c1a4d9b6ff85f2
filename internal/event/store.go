package event

import (
	"context"
)

// Store persists event rows. Implementations honor a transaction carried in
// the context so event writes, participant writes and the relationship
// rebuild share one unit of work.
type Store interface {
	// Insert persists a new event and assigns its id.
	Insert(ctx context.Context, e *Event) error
	// GetByID returns the event or a not-found error.
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Update rewrites the mutable columns of an existing event.
	Update(ctx context.Context, e *Event) error
	// ListByParticipant returns events the person participates in, newest
	// event date first.
	ListByParticipant(ctx context.Context, personID int64) ([]*Event, error)
}

// ParticipantStore persists role assignments.
type ParticipantStore interface {
	// ListByEventRole returns the current occupants of (eventID, roleID) in
	// id order.
	ListByEventRole(ctx context.Context, eventID, roleID int64) ([]*Participant, error)
	// ListByEvent returns all assignments of one event in id order.
	ListByEvent(ctx context.Context, eventID int64) ([]*Participant, error)
	Insert(ctx context.Context, p *Participant) error
	Update(ctx context.Context, p *Participant) error
	Delete(ctx context.Context, id int64) error
}

package review

import (
	"context"
)

// listLimit caps review listings.
const listLimit = 200

// ConflictStore persists conflict review items. Rows are created by the
// rebuild procedure; this store only reads and resolves them.
type ConflictStore interface {
	GetByID(ctx context.Context, id int64) (*Conflict, error)
	// Update rewrites status, notes and resolution fields.
	Update(ctx context.Context, c *Conflict) error
	// List returns items with the given status, oldest first, capped at
	// listLimit.
	List(ctx context.Context, status Status) ([]*Conflict, error)
}

// DuplicateStore persists event-duplicate review items.
type DuplicateStore interface {
	GetByID(ctx context.Context, id int64) (*EventDuplicate, error)
	Update(ctx context.Context, d *EventDuplicate) error
	List(ctx context.Context, status Status) ([]*EventDuplicate, error)
}

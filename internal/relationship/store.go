package relationship

import (
	"context"
)

// Store reads kinship edges. Always queried fresh per request; the graph can
// change between requests via the rebuild procedure, so nothing here caches.
type Store interface {
	// EdgesTouching returns all parent and spouse edges where personID is
	// either endpoint, in stable id order.
	EdgesTouching(ctx context.Context, personID int64) ([]*Relationship, error)
}

// Rebuilder invokes the database-side relationship derivation for one event.
type Rebuilder interface {
	RebuildForEvent(ctx context.Context, eventID int64) error
}

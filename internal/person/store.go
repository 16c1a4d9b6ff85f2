package person

import (
	"context"
)

// Store provides visibility-aware access to person records. Every read takes
// a Scope; rows the scope does not admit behave exactly like rows that do not
// exist.
type Store interface {
	// GetByID returns the person or a not-found error. Non-admitted rows are
	// reported as not found.
	GetByID(ctx context.Context, id int64, scope Scope) (*Person, error)

	// ListByIDs returns the admitted subset of the requested ids, in no
	// particular order. Missing and non-admitted ids are silently omitted.
	ListByIDs(ctx context.Context, ids []int64, scope Scope) ([]*Person, error)
}

package records

import (
	"context"
)

// SearchStore executes record searches. Params arrive normalized.
type SearchStore interface {
	Search(ctx context.Context, params SearchParams) ([]*Item, int64, error)
}

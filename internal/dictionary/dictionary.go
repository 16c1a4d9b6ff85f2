// Package dictionary reads the shared name dictionaries. Name parts are
// normalized into three lookup tables and referenced from persons by id.
package dictionary

import (
	"context"
)

// Kind identifies one of the three name dictionaries.
type Kind string

const (
	KindFirstName  Kind = "first_name"
	KindLastName   Kind = "last_name"
	KindPatronymic Kind = "patronymic"
)

//go:generate mockgen -source=dictionary.go -destination=mocks/store_mock.go -package=mocks

// Store resolves dictionary ids to their text values. Unknown ids are
// omitted from the result map rather than reported as errors.
type Store interface {
	Lookup(ctx context.Context, kind Kind, ids []int64) (map[int64]string, error)
}

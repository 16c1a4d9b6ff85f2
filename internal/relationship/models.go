// Package relationship exposes the kinship edge list. Edges are produced and
// retracted exclusively by the database-side rebuild procedure; this package
// only reads them and triggers rebuilds.
package relationship

import (
	"time"
)

// Type of a kinship edge. Other edge types may exist in storage; readers
// here only ever fetch these two.
type Type string

const (
	// TypeParent is directed: Person1 is the parent, Person2 the child.
	TypeParent Type = "parent"
	// TypeSpouse is stored as an ordered pair but read symmetrically.
	TypeSpouse Type = "spouse"
)

// Relationship is one edge of the kinship graph.
type Relationship struct {
	ID              int64
	Person1ID       int64
	Person2ID       int64
	Type            Type
	Confidence      *float64
	SystemSuggested bool
	UserConfirmed   bool
	ModeratorID     *int64
	SourceEventID   *int64
	CreatedAt       time.Time
}

// Other returns the endpoint that is not personID. If personID is not an
// endpoint, Person1ID is returned; callers only pass endpoints they fetched
// edges by.
func (r *Relationship) Other(personID int64) int64 {
	if r.Person1ID == personID {
		return r.Person2ID
	}
	return r.Person1ID
}

// ParentOf reports whether the edge names personID as the child.
func (r *Relationship) ParentOf(personID int64) bool {
	return r.Type == TypeParent && r.Person2ID == personID
}

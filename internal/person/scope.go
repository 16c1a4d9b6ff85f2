package person

import (
	"lineage/internal/access"
)

// Scope narrows person queries to the rows an accessor may see. It is the
// only admission mechanism in the system: stores apply it on every read, so
// traversal and summaries can never leak a non-admitted person, not even as
// an edge endpoint. Precedence: privileged accessors see everything; an
// authenticated accessor sees public rows plus their own; anonymous
// accessors see public rows only.
type Scope struct {
	all    bool
	userID *int64
}

// ScopeFor derives the admission scope from an access context.
func ScopeFor(ac access.Context) Scope {
	if ac.Privileged {
		return Scope{all: true}
	}
	if ac.Authenticated {
		uid := ac.UserID
		return Scope{userID: &uid}
	}
	return Scope{}
}

// Admits reports whether the scope admits p.
func (s Scope) Admits(p *Person) bool {
	if s.all {
		return true
	}
	if p.IsPublic() {
		return true
	}
	return s.userID != nil && p.OwnedBy(*s.userID)
}

// AdmitsAll reports whether the scope is unrestricted, letting SQL stores
// skip the visibility predicate entirely.
func (s Scope) AdmitsAll() bool { return s.all }

// UserID returns the accessor's user id and whether one is present.
func (s Scope) UserID() (int64, bool) {
	if s.userID == nil {
		return 0, false
	}
	return *s.userID, true
}

// Package event owns life-event records, their participant assignments and
// the reconciliation protocol that keeps one person per role per event.
package event

import (
	"time"

	dErrors "lineage/pkg/domain-errors"
)

// Type of a life event.
type Type string

const (
	TypeBirth    Type = "birth"
	TypeDeath    Type = "death"
	TypeMarriage Type = "marriage"
	TypeDivorce  Type = "divorce"
	TypeRevision Type = "revision"
)

// typeLabels are the human-readable display names for event types.
var typeLabels = map[Type]string{
	TypeBirth:    "Birth",
	TypeDeath:    "Death",
	TypeMarriage: "Marriage",
	TypeDivorce:  "Divorce",
	TypeRevision: "Revision census",
}

// Label returns the display name for the type, falling back to the raw value.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// AffectsKinship reports whether events of this type feed the relationship
// rebuild procedure. Death and revision records carry no kinship edges.
func (t Type) AffectsKinship() bool {
	switch t {
	case TypeBirth, TypeMarriage, TypeDivorce:
		return true
	}
	return false
}

// Role is a participant role within an event. The set is closed and the
// id mapping is fixed at compile time instead of being looked up by name
// per call.
type Role string

const (
	RoleChild    Role = "child"
	RoleFather   Role = "father"
	RoleMother   Role = "mother"
	RoleDeceased Role = "deceased"
	RoleGroom    Role = "groom"
	RoleBride    Role = "bride"
	RoleHusband  Role = "husband"
	RoleWife     Role = "wife"
	RoleHead     Role = "head"
)

var roleIDs = map[Role]int64{
	RoleChild:    1,
	RoleFather:   2,
	RoleMother:   3,
	RoleDeceased: 4,
	RoleGroom:    5,
	RoleBride:    6,
	RoleHusband:  7,
	RoleWife:     8,
	RoleHead:     9,
}

var rolesByID = func() map[int64]Role {
	m := make(map[int64]Role, len(roleIDs))
	for r, id := range roleIDs {
		m[id] = r
	}
	return m
}()

// ID returns the stable storage id for the role.
func (r Role) ID() int64 { return roleIDs[r] }

// RoleByID maps a storage id back to the role.
func RoleByID(id int64) (Role, bool) {
	r, ok := rolesByID[id]
	return r, ok
}

// Event is one canonical life-event row. OriginalText holds the submitted
// payload verbatim so the record can be redisplayed losslessly even after
// canonical columns are normalized.
type Event struct {
	ID           int64
	Type         Type
	EventDate    *time.Time
	LocationID   *int64
	SourceID     *int64
	Notes        *string
	OriginalText []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Participant assigns one person to one role of one event.
type Participant struct {
	ID             int64
	EventID        int64
	PersonID       int64
	RoleID         int64
	AdditionalInfo *string
}

// requireType verifies the event carries the expected type, reporting a
// mismatch as not found so typed endpoints do not disclose other records.
func (e *Event) requireType(t Type) error {
	if e.Type != t {
		return dErrors.Newf(dErrors.CodeNotFound, "%s record not found", t)
	}
	return nil
}

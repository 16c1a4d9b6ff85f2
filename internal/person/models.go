package person

import (
	"time"
)

// Gender is always one of two values; the store rejects anything else.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Visibility controls who may see a person record.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Person is a genealogical person record. Name parts live in the external
// name dictionaries and are referenced by id.
type Person struct {
	ID           int64
	FirstNameID  *int64
	LastNameID   *int64
	PatronymicID *int64
	Gender       Gender

	BirthDate          *time.Time
	DeathDate          *time.Time
	EstimatedBirthYear *int
	EstimatedDeathYear *int

	Visibility  Visibility
	OwnerUserID *int64
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BirthYear returns the year of birth, preferring the exact date and falling
// back to the estimate only when no date is recorded.
func (p *Person) BirthYear() *int {
	if p.BirthDate != nil {
		y := p.BirthDate.Year()
		return &y
	}
	return p.EstimatedBirthYear
}

// DeathYear mirrors BirthYear for the death date.
func (p *Person) DeathYear() *int {
	if p.DeathDate != nil {
		y := p.DeathDate.Year()
		return &y
	}
	return p.EstimatedDeathYear
}

// IsPublic reports whether the record is visible to everyone.
func (p *Person) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

// OwnedBy reports whether userID owns this record.
func (p *Person) OwnedBy(userID int64) bool {
	return p.OwnerUserID != nil && *p.OwnerUserID == userID
}

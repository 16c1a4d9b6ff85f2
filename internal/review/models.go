// Package review implements the moderation workflow for conflicts and
// duplicate-event pairs raised by the relationship rebuild procedure.
package review

import (
	"time"
)

// Status of a review item. Each entity kind has its own pair of terminal
// statuses; pending is the shared initial state.
type Status string

const (
	StatusPending Status = "pending"

	// Conflict terminals.
	StatusResolved Status = "resolved"
	StatusRejected Status = "rejected"

	// EventDuplicate terminals.
	StatusConfirmedDuplicate Status = "confirmed_duplicate"
	StatusConfirmedDifferent Status = "confirmed_different"
)

var conflictTerminals = map[Status]bool{
	StatusResolved: true,
	StatusRejected: true,
}

var duplicateTerminals = map[Status]bool{
	StatusConfirmedDuplicate: true,
	StatusConfirmedDifferent: true,
}

// Conflict is a kinship inconsistency flagged for human review.
type Conflict struct {
	ID              int64      `json:"id"`
	Type            string     `json:"type"`
	Status          Status     `json:"status"`
	SubjectPersonID *int64     `json:"subject_person_id,omitempty"`
	Event1ID        *int64     `json:"event1_id,omitempty"`
	Event2ID        *int64     `json:"event2_id,omitempty"`
	Relationship1ID *int64     `json:"relationship1_id,omitempty"`
	Relationship2ID *int64     `json:"relationship2_id,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      *int64     `json:"resolved_by,omitempty"`
}

// EventDuplicate is a suspected duplicate pair of events.
type EventDuplicate struct {
	ID              int64      `json:"id"`
	Event1ID        int64      `json:"event1_id"`
	Event2ID        int64      `json:"event2_id"`
	Reason          string     `json:"reason"`
	SimilarityScore float64    `json:"similarity_score"`
	Status          Status     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty"`
}

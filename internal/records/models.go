// Package records implements the archive record search: filtered, sorted,
// paginated queries over events joined with their type, place and source.
package records

import (
	"encoding/json"
	"time"
)

// Page size bounds. Out-of-range requests are clamped, not rejected.
const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// Sort fields and directions. Unknown values fall back to the defaults.
const (
	SortByDate = "date"
	SortByID   = "id"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchParams are the raw query parameters of one search request.
type SearchParams struct {
	Query       string
	EventType   string
	DateFrom    *time.Time
	DateTo      *time.Time
	Place       string
	SourceType  string
	EventIDFrom *int64
	EventIDTo   *int64

	SortField     string
	SortDirection string
	Page          int
	PageSize      int
}

// normalize clamps pagination and coerces unknown sort parameters.
func (p *SearchParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.SortField != SortByID {
		p.SortField = SortByDate
	}
	if p.SortDirection != SortDesc {
		p.SortDirection = SortAsc
	}
}

// Offset returns the row offset of the requested page.
func (p *SearchParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Item is one search hit.
type Item struct {
	ID         int64      `json:"id"`
	Type       string     `json:"type"`
	TypeLabel  string     `json:"type_label"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	Place      *string    `json:"place,omitempty"`
	SourceName *string    `json:"source_name,omitempty"`
	SourceType *string    `json:"source_type,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// Result is one page of search hits with the total match count.
type Result struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int64   `json:"total_count"`
	Items      []*Item `json:"items"`
}

// ParticipantView is one role assignment in a record summary.
type ParticipantView struct {
	PersonID       int64   `json:"person_id"`
	Role           string  `json:"role"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}

// Summary is the generic read view of a single record regardless of type.
type Summary struct {
	ID           int64              `json:"id"`
	Type         string             `json:"type"`
	TypeLabel    string             `json:"type_label"`
	EventDate    *time.Time         `json:"event_date,omitempty"`
	LocationID   *int64             `json:"location_id,omitempty"`
	SourceID     *int64             `json:"source_id,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	Original     json.RawMessage    `json:"original,omitempty"`
	Participants []*ParticipantView `json:"participants"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// PersonEvent is one entry of a person's event history. Summary is a
// display line composed from the type label and date.
type PersonEvent struct {
	EventID   int64      `json:"event_id"`
	Type      string     `json:"type"`
	TypeLabel string     `json:"type_label"`
	EventDate *time.Time `json:"event_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Summary   string     `json:"summary"`
}

package records

import (
	"context"
	"log/slog"
	"time"

	"lineage/internal/access"
	"lineage/internal/event"
	"lineage/internal/person"
	"lineage/internal/platform/metrics"
)

// Service runs record searches and the generic single-record views.
type Service struct {
	search  SearchStore
	events  event.Store
	parts   event.ParticipantStore
	persons person.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService creates a records service.
func NewService(
	search SearchStore,
	events event.Store,
	parts event.ParticipantStore,
	persons person.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{search: search, events: events, parts: parts, persons: persons, metrics: m, logger: logger}
}

// Search normalizes params and executes the query.
func (s *Service) Search(ctx context.Context, params SearchParams) (*Result, error) {
	params.normalize()

	start := time.Now()
	items, total, err := s.search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRecordSearch(time.Since(start))

	if items == nil {
		items = []*Item{}
	}
	return &Result{
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		Items:      items,
	}, nil
}

// Summarize returns the type-agnostic view of one record with its role
// assignments.
func (s *Service) Summarize(ctx context.Context, id int64) (*Summary, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parts, err := s.parts.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]*ParticipantView, 0, len(parts))
	for _, p := range parts {
		role, ok := event.RoleByID(p.RoleID)
		if !ok {
			continue
		}
		views = append(views, &ParticipantView{
			PersonID:       p.PersonID,
			Role:           string(role),
			AdditionalInfo: p.AdditionalInfo,
		})
	}

	return &Summary{
		ID:           e.ID,
		Type:         string(e.Type),
		TypeLabel:    e.Type.Label(),
		EventDate:    e.EventDate,
		LocationID:   e.LocationID,
		SourceID:     e.SourceID,
		Notes:        e.Notes,
		Original:     e.OriginalText,
		Participants: views,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}, nil
}

// PersonEvents returns a person's event history, newest first. The subject
// must be admitted for the accessor; a hidden person reads as not found.
func (s *Service) PersonEvents(ctx context.Context, personID int64, ac access.Context) ([]*PersonEvent, error) {
	if _, err := s.persons.GetByID(ctx, personID, person.ScopeFor(ac)); err != nil {
		return nil, err
	}
	events, err := s.events.ListByParticipant(ctx, personID)
	if err != nil {
		return nil, err
	}
	out := make([]*PersonEvent, 0, len(events))
	for _, e := range events {
		summary := e.Type.Label()
		if e.EventDate != nil {
			summary += ", " + e.EventDate.Format("2006-01-02")
		}
		out = append(out, &PersonEvent{
			EventID:   e.ID,
			Type:      string(e.Type),
			TypeLabel: e.Type.Label(),
			EventDate: e.EventDate,
			Notes:     e.Notes,
			Summary:   summary,
		})
	}
	return out, nil
}

// Package family produces single-person family summaries: father, mother
// and spouses resolved from the kinship graph in one hop.
package family

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lineage/internal/access"
	"lineage/internal/person"
	"lineage/internal/platform/metrics"
	"lineage/internal/relationship"
)

// Member is a person reference within a summary.
type Member struct {
	PersonID  int64  `json:"person_id"`
	FullName  string `json:"full_name"`
	Gender    string `json:"gender"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
}

// Summary is the family view of one person.
type Summary struct {
	Person  *Member   `json:"person"`
	Father  *Member   `json:"father,omitempty"`
	Mother  *Member   `json:"mother,omitempty"`
	Spouses []*Member `json:"spouses"`
}

// Service resolves family summaries.
type Service struct {
	persons person.Store
	edges   relationship.Store
	names   *person.NameResolver
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a family summary service.
func NewService(
	persons person.Store,
	edges relationship.Store,
	names *person.NameResolver,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		persons: persons,
		edges:   edges,
		names:   names,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("lineage/family"),
	}
}

// Summarize resolves the subject's parents and spouses. The first admitted
// male parent becomes the father and the first admitted female parent the
// mother; additional same-gender parent edges are counted as data-quality
// conflicts and otherwise ignored. Spouses keep edge-fetch order, repeated
// edges to the same person included.
func (s *Service) Summarize(ctx context.Context, personID int64, ac access.Context) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "family.Summarize",
		trace.WithAttributes(attribute.Int64("person.id", personID)))
	defer span.End()

	scope := person.ScopeFor(ac)

	subject, err := s.persons.GetByID(ctx, personID, scope)
	if err != nil {
		return nil, err
	}

	edges, err := s.edges.EdgesTouching(ctx, personID)
	if err != nil {
		return nil, err
	}

	var parentIDs, spouseIDs []int64
	for _, e := range edges {
		switch {
		case e.ParentOf(personID):
			parentIDs = append(parentIDs, e.Person1ID)
		case e.Type == relationship.TypeSpouse:
			spouseIDs = append(spouseIDs, e.Other(personID))
		}
	}

	related := append(append([]int64{}, parentIDs...), spouseIDs...)
	admitted, err := s.persons.ListByIDs(ctx, related, scope)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*person.Person, len(admitted)+1)
	for _, p := range admitted {
		byID[p.ID] = p
	}
	byID[subject.ID] = subject

	all := append([]*person.Person{subject}, admitted...)
	names, err := s.names.FullNames(ctx, all)
	if err != nil {
		return nil, err
	}
	member := func(p *person.Person) *Member {
		return &Member{
			PersonID:  p.ID,
			FullName:  names[p.ID],
			Gender:    string(p.Gender),
			BirthYear: p.BirthYear(),
			DeathYear: p.DeathYear(),
		}
	}

	summary := &Summary{Person: member(subject), Spouses: []*Member{}}
	for _, id := range parentIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		switch p.Gender {
		case person.GenderMale:
			if summary.Father == nil {
				summary.Father = member(p)
			} else {
				s.metrics.RecordParentConflict()
				s.logger.WarnContext(ctx, "multiple male parent edges",
					"person_id", personID, "ignored_parent_id", id)
			}
		case person.GenderFemale:
			if summary.Mother == nil {
				summary.Mother = member(p)
			} else {
				s.metrics.RecordParentConflict()
				s.logger.WarnContext(ctx, "multiple female parent edges",
					"person_id", personID, "ignored_parent_id", id)
			}
		}
	}
	for _, id := range spouseIDs {
		if p, ok := byID[id]; ok {
			summary.Spouses = append(summary.Spouses, member(p))
		}
	}

	return summary, nil
}

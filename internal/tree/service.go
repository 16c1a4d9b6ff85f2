// Package tree builds bounded-depth family trees over the kinship graph.
package tree

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lineage/internal/access"
	"lineage/internal/person"
	"lineage/internal/platform/metrics"
	"lineage/internal/relationship"
	dErrors "lineage/pkg/domain-errors"
)

// maxDepth is the fixed traversal bound: root, direct relations, and
// relations of relations. Not configurable per call.
const maxDepth = 2

// Node is one person in the rendered tree.
type Node struct {
	PersonID  int64  `json:"person_id"`
	FullName  string `json:"full_name"`
	Gender    string `json:"gender"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
	NonPublic bool   `json:"non_public"`
	IsOwner   bool   `json:"is_owner"`
}

// Edge is one kinship edge between two rendered nodes.
type Edge struct {
	ID        int64  `json:"id"`
	Person1ID int64  `json:"person1_id"`
	Person2ID int64  `json:"person2_id"`
	Type      string `json:"type"`
}

// Tree is the traversal result.
type Tree struct {
	RootID int64   `json:"root_id"`
	Nodes  []*Node `json:"nodes"`
	Edges  []*Edge `json:"edges"`
}

// Service builds trees. Node and edge counts are unbounded beyond the depth
// limit; densely connected subgraphs produce large responses and one edge
// query per visited person.
type Service struct {
	persons person.Store
	edges   relationship.Store
	names   *person.NameResolver
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a tree service.
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
		tracer:  otel.Tracer("lineage/tree"),
	}
}

// Build runs a breadth-first expansion from rootID. The root must exist and
// be admitted for the accessor, otherwise not-found. Visited persons that
// turn out not to be admitted are dropped from the node set, and every edge
// with a dropped endpoint is dropped with them.
func (s *Service) Build(ctx context.Context, rootID int64, ac access.Context) (*Tree, error) {
	ctx, span := s.tracer.Start(ctx, "tree.Build",
		trace.WithAttributes(attribute.Int64("person.id", rootID)))
	defer span.End()

	scope := person.ScopeFor(ac)

	if _, err := s.persons.GetByID(ctx, rootID, scope); err != nil {
		return nil, err
	}

	type queued struct {
		id    int64
		depth int
	}

	visited := map[int64]bool{rootID: true}
	queue := []queued{{id: rootID, depth: 0}}
	edgesByID := make(map[int64]*relationship.Relationship)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}

		touching, err := s.edges.EdgesTouching(ctx, cur.id)
		if err != nil {
			return nil, err
		}
		for _, e := range touching {
			edgesByID[e.ID] = e
			other := e.Other(cur.id)
			if !visited[other] {
				visited[other] = true
				queue = append(queue, queued{id: other, depth: cur.depth + 1})
			}
		}
	}

	ids := make([]int64, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	admitted, err := s.persons.ListByIDs(ctx, ids, scope)
	if err != nil {
		return nil, err
	}

	names, err := s.names.FullNames(ctx, admitted)
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(admitted))
	admittedSet := make(map[int64]bool, len(admitted))
	for _, p := range admitted {
		admittedSet[p.ID] = true
		nodes = append(nodes, &Node{
			PersonID:  p.ID,
			FullName:  names[p.ID],
			Gender:    string(p.Gender),
			BirthYear: p.BirthYear(),
			DeathYear: p.DeathYear(),
			NonPublic: !p.IsPublic(),
			IsOwner:   ac.Authenticated && p.OwnedBy(ac.UserID),
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].PersonID < nodes[j].PersonID })

	edges := make([]*Edge, 0, len(edgesByID))
	for _, e := range edgesByID {
		if !admittedSet[e.Person1ID] || !admittedSet[e.Person2ID] {
			continue
		}
		edges = append(edges, &Edge{
			ID:        e.ID,
			Person1ID: e.Person1ID,
			Person2ID: e.Person2ID,
			Type:      string(e.Type),
		})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	if !admittedSet[rootID] {
		// The root passed admission above; reaching here means it was
		// deleted mid-traversal. Treat as not found.
		return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
	}

	s.metrics.RecordTree(len(nodes))
	s.logger.DebugContext(ctx, "tree built",
		"root_id", rootID, "nodes", len(nodes), "edges", len(edges))

	return &Tree{RootID: rootID, Nodes: nodes, Edges: edges}, nil
}

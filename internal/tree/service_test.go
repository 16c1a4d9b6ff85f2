package tree

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage/internal/access"
	"lineage/internal/dictionary"
	"lineage/internal/person"
	"lineage/internal/relationship"
	dErrors "lineage/pkg/domain-errors"
)

type fixture struct {
	persons *person.MemoryStore
	edges   *relationship.MemoryStore
	service *Service
}

func newFixture() *fixture {
	persons := person.NewMemoryStore()
	edges := relationship.NewMemoryStore()
	names := person.NewNameResolver(dictionary.NewMemoryStore())
	service := NewService(persons, edges, names, nil, slog.New(slog.DiscardHandler))
	return &fixture{persons: persons, edges: edges, service: service}
}

func (f *fixture) addPerson(id int64, visibility person.Visibility) {
	f.persons.Put(&person.Person{ID: id, Gender: person.GenderMale, Visibility: visibility})
}

func (f *fixture) addEdge(id, p1, p2 int64, typ relationship.Type) {
	f.edges.Put(&relationship.Relationship{ID: id, Person1ID: p1, Person2ID: p2, Type: typ})
}

func nodeIDs(tree *Tree) []int64 {
	ids := make([]int64, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		ids = append(ids, n.PersonID)
	}
	return ids
}

func TestBuildStopsAtTwoRings(t *testing.T) {
	f := newFixture()
	// Chain 1 - 2 - 3 - 4: person 4 is three hops out.
	for id := int64(1); id <= 4; id++ {
		f.addPerson(id, person.VisibilityPublic)
	}
	f.addEdge(1, 1, 2, relationship.TypeParent)
	f.addEdge(2, 2, 3, relationship.TypeParent)
	f.addEdge(3, 3, 4, relationship.TypeParent)

	tree, err := f.service.Build(context.Background(), 1, access.Anonymous)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{1, 2, 3}, nodeIDs(tree))
	// Person 3 sits on the depth bound and is never expanded, so the 3-4
	// edge is not even fetched.
	require.Len(t, tree.Edges, 2)
}

func TestBuildNotFoundForMissingOrHiddenRoot(t *testing.T) {
	f := newFixture()
	f.addPerson(1, person.VisibilityPrivate)

	_, err := f.service.Build(context.Background(), 1, access.Anonymous)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	_, err = f.service.Build(context.Background(), 99, access.Anonymous)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestBuildNeverLeaksHiddenPersons(t *testing.T) {
	f := newFixture()
	f.addPerson(1, person.VisibilityPublic)
	f.addPerson(2, person.VisibilityPrivate)
	f.addPerson(3, person.VisibilityPublic)
	f.addEdge(1, 1, 2, relationship.TypeSpouse)
	f.addEdge(2, 2, 3, relationship.TypeParent)

	tree, err := f.service.Build(context.Background(), 1, access.Anonymous)
	require.NoError(t, err)

	// Person 2 is reachable but not admitted: neither the node nor any edge
	// touching it may appear, even though person 3 remains visible.
	assert.ElementsMatch(t, []int64{1, 3}, nodeIDs(tree))
	assert.Empty(t, tree.Edges)
}

func TestBuildAdmitsOwnedPrivatePersons(t *testing.T) {
	f := newFixture()
	owner := int64(42)
	f.addPerson(1, person.VisibilityPublic)
	f.persons.Put(&person.Person{
		ID: 2, Gender: person.GenderFemale,
		Visibility: person.VisibilityPrivate, OwnerUserID: &owner,
	})
	f.addEdge(1, 1, 2, relationship.TypeSpouse)

	tree, err := f.service.Build(context.Background(), 1,
		access.Context{UserID: 42, Authenticated: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{1, 2}, nodeIDs(tree))
	require.Len(t, tree.Edges, 1)

	var owned *Node
	for _, n := range tree.Nodes {
		if n.PersonID == 2 {
			owned = n
		}
	}
	require.NotNil(t, owned)
	assert.True(t, owned.NonPublic)
	assert.True(t, owned.IsOwner)
}

func TestBuildDeterministicOrdering(t *testing.T) {
	f := newFixture()
	for id := int64(1); id <= 3; id++ {
		f.addPerson(id, person.VisibilityPublic)
	}
	f.addEdge(2, 1, 3, relationship.TypeSpouse)
	f.addEdge(1, 1, 2, relationship.TypeParent)

	tree, err := f.service.Build(context.Background(), 1, access.Anonymous)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, nodeIDs(tree))
	require.Len(t, tree.Edges, 2)
	assert.Less(t, tree.Edges[0].ID, tree.Edges[1].ID)
}

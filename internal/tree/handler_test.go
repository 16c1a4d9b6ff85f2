package tree

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"lineage/internal/dictionary"
	"lineage/internal/person"
	"lineage/internal/relationship"
)

func newTreeRouter(persons *person.MemoryStore, edges *relationship.MemoryStore) chi.Router {
	logger := slog.New(slog.DiscardHandler)
	names := person.NewNameResolver(dictionary.NewMemoryStore())
	service := NewService(persons, edges, names, nil, logger)

	r := chi.NewRouter()
	NewHandler(service, logger).RegisterRoutes(r)
	return r
}

func TestGetTreeHappyPath(t *testing.T) {
	persons := person.NewMemoryStore()
	persons.Put(&person.Person{ID: 1, Gender: person.GenderMale, Visibility: person.VisibilityPublic})
	persons.Put(&person.Person{ID: 2, Gender: person.GenderFemale, Visibility: person.VisibilityPublic})
	edges := relationship.NewMemoryStore()
	edges.Put(&relationship.Relationship{ID: 1, Person1ID: 1, Person2ID: 2, Type: relationship.TypeSpouse})
	router := newTreeRouter(persons, edges)

	req := httptest.NewRequest(http.MethodGet, "/persons/1/tree", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp Tree
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Nodes) != 2 || len(resp.Edges) != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d/%d", len(resp.Nodes), len(resp.Edges))
	}
	if resp.Nodes[0].FullName != "Person #1" {
		t.Fatalf("expected placeholder name, got %q", resp.Nodes[0].FullName)
	}
}

func TestGetTreeHiddenRootReadsAs404(t *testing.T) {
	persons := person.NewMemoryStore()
	persons.Put(&person.Person{ID: 1, Gender: person.GenderMale, Visibility: person.VisibilityPrivate})
	router := newTreeRouter(persons, relationship.NewMemoryStore())

	for _, path := range []string{"/persons/1/tree", "/persons/99/tree"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		// Hidden and missing must be indistinguishable.
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, rec.Code)
		}
	}
}

func TestGetTreeRejectsBadID(t *testing.T) {
	router := newTreeRouter(person.NewMemoryStore(), relationship.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/persons/abc/tree", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

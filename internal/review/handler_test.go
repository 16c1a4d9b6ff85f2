package review

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"lineage/internal/audit"
	"lineage/internal/identity"
	"lineage/internal/platform/middleware"
)

const signingKey = "test-signing-key"

func newReviewRouter(t *testing.T, conflicts *MemoryConflictStore, duplicates *MemoryDuplicateStore) chi.Router {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	service := NewService(conflicts, duplicates, audit.NewEmitter(nil, logger), nil, logger)
	handler := NewHandler(service, logger)

	validator := identity.NewService(signingKey)
	moderatorOnly := middleware.RequireRole(validator, logger, identity.RoleModerator, identity.RoleAdmin)

	r := chi.NewRouter()
	handler.RegisterRoutes(r, moderatorOnly)
	return r
}

func mintToken(t *testing.T, roles ...string) string {
	t.Helper()
	claims := identity.Claims{
		UserID: 1,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func doResolve(router chi.Router, path, token string, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestResolveConflictRequiresToken(t *testing.T) {
	router := newReviewRouter(t, NewMemoryConflictStore(), NewMemoryDuplicateStore())

	rec := doResolve(router, "/conflicts/1/resolve", "", map[string]any{"status": "resolved"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestResolveConflictRequiresModeratorRole(t *testing.T) {
	router := newReviewRouter(t, NewMemoryConflictStore(), NewMemoryDuplicateStore())

	rec := doResolve(router, "/conflicts/1/resolve", mintToken(t, identity.RoleGenealogist),
		map[string]any{"status": "resolved"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for genealogist role, got %d", rec.Code)
	}
}

func TestResolveConflictHappyPath(t *testing.T) {
	conflicts := NewMemoryConflictStore()
	conflicts.Seed(&Conflict{ID: 1, Type: "parent_mismatch", Status: StatusPending, CreatedAt: time.Now()})
	router := newReviewRouter(t, conflicts, NewMemoryDuplicateStore())

	rec := doResolve(router, "/conflicts/1/resolve", mintToken(t, identity.RoleModerator),
		map[string]any{"status": "resolved", "notes": "verified against parish book"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp Conflict
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != StatusResolved {
		t.Fatalf("expected resolved status, got %s", resp.Status)
	}
	if resp.ResolvedAt == nil {
		t.Fatalf("expected resolution timestamp")
	}
}

func TestResolveConflictInvalidStatusIs400(t *testing.T) {
	conflicts := NewMemoryConflictStore()
	conflicts.Seed(&Conflict{ID: 1, Type: "parent_mismatch", Status: StatusPending, CreatedAt: time.Now()})
	router := newReviewRouter(t, conflicts, NewMemoryDuplicateStore())

	rec := doResolve(router, "/conflicts/1/resolve", mintToken(t, identity.RoleAdmin),
		map[string]any{"status": "confirmed_duplicate"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for foreign status vocabulary, got %d", rec.Code)
	}
}

func TestResolveConflictUnknownIDIs404(t *testing.T) {
	router := newReviewRouter(t, NewMemoryConflictStore(), NewMemoryDuplicateStore())

	rec := doResolve(router, "/conflicts/42/resolve", mintToken(t, identity.RoleModerator),
		map[string]any{"status": "rejected"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListDuplicatesReturnsPendingItems(t *testing.T) {
	duplicates := NewMemoryDuplicateStore()
	duplicates.Seed(&EventDuplicate{ID: 1, Event1ID: 10, Event2ID: 11, Reason: "same child and date", Status: StatusPending, CreatedAt: time.Now()})
	router := newReviewRouter(t, NewMemoryConflictStore(), duplicates)

	req := httptest.NewRequest(http.MethodGet, "/event-duplicates", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, identity.RoleModerator))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items []*EventDuplicate `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 pending item, got %d", len(resp.Items))
	}
}

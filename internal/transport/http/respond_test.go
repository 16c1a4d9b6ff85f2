package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	dErrors "lineage/pkg/domain-errors"
)

func writeErr(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	WriteError(rec, req, slog.New(slog.DiscardHandler), err)

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return rec, resp
}

func TestWriteErrorMapsCodedError(t *testing.T) {
	rec, resp := writeErr(t, dErrors.New(dErrors.CodeNotFound, "person not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Error != "person not found" || resp.Code != "not_found" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestWriteErrorUncodedFallsBackToInternal(t *testing.T) {
	rec, resp := writeErr(t, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp.Code != "internal" || resp.Error != "internal error" {
		t.Fatalf("expected internal envelope, got %+v", resp)
	}
}

func TestWriteErrorUnwrapsCodedCause(t *testing.T) {
	wrapped := dErrors.Wrap(dErrors.New(dErrors.CodeBadRequest, "date is required"), dErrors.CodeBadRequest, "invalid submission")
	rec, _ := writeErr(t, wrapped)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// Package http holds the shared request/response plumbing for the REST
// handlers: JSON encoding, error mapping, and parameter parsing.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lineage/internal/platform/middleware"
	dErrors "lineage/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error to an HTTP status and writes the error
// envelope. Unknown errors are logged and reported as internal.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var dErr *dErrors.Error
	if !errors.As(err, &dErr) {
		dErr = &dErrors.Error{Code: dErrors.CodeInternal, Message: "internal error", Err: err}
	}

	status := dErrors.ToHTTPStatus(dErr.Code)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "code", string(dErr.Code), "error", err)
	}

	WriteJSON(w, status, ErrorResponse{
		Error:     dErr.Message,
		Code:      string(dErr.Code),
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

// IDParam parses a chi URL parameter as an int64 id.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", name)
	}
	return id, nil
}

package records

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"lineage/internal/access"
	transport "lineage/internal/transport/http"
)

// Handler serves the record search and record view endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a records handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the records routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/records/search", h.search)
	r.Get("/records/{id}/summary", h.summary)
	r.Get("/persons/{id}/events", h.personEvents)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := SearchParams{
		Query:         q.Get("query"),
		EventType:     q.Get("eventType"),
		DateFrom:      parseDate(q.Get("dateFrom")),
		DateTo:        parseDate(q.Get("dateTo")),
		Place:         q.Get("place"),
		SourceType:    q.Get("sourceType"),
		EventIDFrom:   parseID(q.Get("eventIdFrom")),
		EventIDTo:     parseID(q.Get("eventIdTo")),
		SortField:     q.Get("sortField"),
		SortDirection: q.Get("sortDirection"),
		Page:          parseInt(q.Get("page")),
		PageSize:      parseInt(q.Get("pageSize")),
	}

	result, err := h.service.Search(r.Context(), params)
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	summary, err := h.service.Summarize(r.Context(), id)
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) personEvents(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	events, err := h.service.PersonEvents(r.Context(), id, access.FromRequestContext(r.Context()))
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]any{"items": events})
}

// Malformed optional parameters are ignored rather than rejected; pagination
// and sort get clamped downstream.

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func parseID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

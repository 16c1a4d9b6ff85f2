package review

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	transport "lineage/internal/transport/http"
)

// Handler serves the review endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a review handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the review routes. All of them are wrapped with
// moderatorOnly, which enforces the moderator or admin role.
func (h *Handler) RegisterRoutes(r chi.Router, moderatorOnly func(http.Handler) http.Handler) {
	r.Group(func(g chi.Router) {
		g.Use(moderatorOnly)
		g.Get("/conflicts", h.listConflicts)
		g.Post("/conflicts/{id}/resolve", h.resolveConflict)
		g.Get("/event-duplicates", h.listDuplicates)
		g.Post("/event-duplicates/{id}/resolve", h.resolveDuplicate)
	})
}

type resolveRequest struct {
	Status Status  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

func (h *Handler) listConflicts(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListConflicts(r.Context(), Status(r.URL.Query().Get("status")))
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []*Conflict{}
	}
	transport.WriteJSON(w, http.StatusOK, listResponse[*Conflict]{Items: items})
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var req resolveRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	c, err := h.service.ResolveConflict(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) listDuplicates(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDuplicates(r.Context(), Status(r.URL.Query().Get("status")))
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []*EventDuplicate{}
	}
	transport.WriteJSON(w, http.StatusOK, listResponse[*EventDuplicate]{Items: items})
}

func (h *Handler) resolveDuplicate(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var req resolveRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	d, err := h.service.ResolveDuplicate(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, d)
}

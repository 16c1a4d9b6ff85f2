package family

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lineage/internal/access"
	transport "lineage/internal/transport/http"
)

// Handler serves the family summary endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a family handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the family routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persons/{id}/family-summary", h.getSummary)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}

	summary, err := h.service.Summarize(r.Context(), id, access.FromRequestContext(r.Context()))
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, summary)
}

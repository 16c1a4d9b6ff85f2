package tree

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lineage/internal/access"
	transport "lineage/internal/transport/http"
)

// Handler serves the family tree endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a tree handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the tree routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persons/{id}/tree", h.getTree)
}

func (h *Handler) getTree(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}

	result, err := h.service.Build(r.Context(), id, access.FromRequestContext(r.Context()))
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, result)
}

package event

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	transport "lineage/internal/transport/http"
)

// Handler serves the typed event record endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates an event handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the event routes. Reads are open; writes are wrapped
// with editorOnly, which enforces the genealogist or admin role.
func (h *Handler) RegisterRoutes(r chi.Router, editorOnly func(http.Handler) http.Handler) {
	r.Get("/events/births/{id}", h.getBirth)
	r.Get("/events/deaths/{id}", h.getDeath)
	r.Get("/events/marriages/{id}", h.getMarriage)
	r.Get("/events/divorces/{id}", h.getDivorce)
	r.Get("/events/revisions/{id}", h.getRevision)

	r.Group(func(g chi.Router) {
		g.Use(editorOnly)
		g.Post("/events/births", h.createBirth)
		g.Put("/events/births/{id}", h.updateBirth)
		g.Post("/events/deaths", h.createDeath)
		g.Put("/events/deaths/{id}", h.updateDeath)
		g.Post("/events/marriages", h.createMarriage)
		g.Put("/events/marriages/{id}", h.updateMarriage)
		g.Post("/events/divorces", h.createDivorce)
		g.Put("/events/divorces/{id}", h.updateDivorce)
		g.Post("/events/revisions", h.createRevision)
		g.Put("/events/revisions/{id}", h.updateRevision)
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	transport.WriteJSON(w, status, v)
}

func (h *Handler) createBirth(w http.ResponseWriter, r *http.Request) {
	var d BirthDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.CreateBirth(r.Context(), d)
	h.respond(w, r, http.StatusCreated, rec, err)
}

func (h *Handler) getBirth(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.GetBirth(r.Context(), id)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) updateBirth(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var d BirthDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.UpdateBirth(r.Context(), id, d)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) createDeath(w http.ResponseWriter, r *http.Request) {
	var d DeathDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.CreateDeath(r.Context(), d)
	h.respond(w, r, http.StatusCreated, rec, err)
}

func (h *Handler) getDeath(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.GetDeath(r.Context(), id)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) updateDeath(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var d DeathDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.UpdateDeath(r.Context(), id, d)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) createMarriage(w http.ResponseWriter, r *http.Request) {
	var d MarriageDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.CreateMarriage(r.Context(), d)
	h.respond(w, r, http.StatusCreated, rec, err)
}

func (h *Handler) getMarriage(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.GetMarriage(r.Context(), id)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) updateMarriage(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var d MarriageDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.UpdateMarriage(r.Context(), id, d)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) createDivorce(w http.ResponseWriter, r *http.Request) {
	var d DivorceDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.CreateDivorce(r.Context(), d)
	h.respond(w, r, http.StatusCreated, rec, err)
}

func (h *Handler) getDivorce(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.GetDivorce(r.Context(), id)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) updateDivorce(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var d DivorceDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.UpdateDivorce(r.Context(), id, d)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) createRevision(w http.ResponseWriter, r *http.Request) {
	var d RevisionDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.CreateRevision(r.Context(), d)
	h.respond(w, r, http.StatusCreated, rec, err)
}

func (h *Handler) getRevision(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.GetRevision(r.Context(), id)
	h.respond(w, r, http.StatusOK, rec, err)
}

func (h *Handler) updateRevision(w http.ResponseWriter, r *http.Request) {
	id, err := transport.IDParam(r, "id")
	if err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	var d RevisionDetails
	if err := transport.DecodeJSON(r, &d); err != nil {
		transport.WriteError(w, r, h.logger, err)
		return
	}
	rec, err := h.service.UpdateRevision(r.Context(), id, d)
	h.respond(w, r, http.StatusOK, rec, err)
}

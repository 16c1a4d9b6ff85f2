package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lineage/internal/event"
	"lineage/internal/family"
	"lineage/internal/identity"
	"lineage/internal/platform/middleware"
	"lineage/internal/records"
	"lineage/internal/review"
	transport "lineage/internal/transport/http"
	"lineage/internal/tree"
)

const requestTimeout = 30 * time.Second

type routerDeps struct {
	logger    *slog.Logger
	validator middleware.TokenValidator
	tree      *tree.Handler
	family    *family.Handler
	events    *event.Handler
	review    *review.Handler
	records   *records.Handler
	health    func(ctx context.Context) error
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recovery(deps.logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.health(req.Context()); err != nil {
			transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	editorOnly := middleware.RequireRole(deps.validator, deps.logger,
		identity.RoleGenealogist, identity.RoleAdmin)
	moderatorOnly := middleware.RequireRole(deps.validator, deps.logger,
		identity.RoleModerator, identity.RoleAdmin)

	r.Group(func(g chi.Router) {
		g.Use(middleware.OptionalAuth(deps.validator, deps.logger))
		g.Use(middleware.ContentTypeJSON)

		deps.tree.RegisterRoutes(g)
		deps.family.RegisterRoutes(g)
		deps.records.RegisterRoutes(g)
		deps.events.RegisterRoutes(g, editorOnly)
		deps.review.RegisterRoutes(g, moderatorOnly)
	})

	return r
}

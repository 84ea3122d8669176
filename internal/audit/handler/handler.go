// Package handler exposes the audit trail to admins.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vouch/internal/audit/service"
	"vouch/internal/audit/store"
	"vouch/internal/platform/middleware"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/httputil"
)

type Handler struct {
	svc       *service.Service
	auth      func(http.Handler) http.Handler
	adminOnly func(http.Handler) http.Handler
	logger    *slog.Logger
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		auth:      middleware.RequireAuth(jwtValidator, logger),
		adminOnly: middleware.RequireRole(id.RoleAdmin, logger),
		logger:    logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/audit", func(r chi.Router) {
		r.Use(h.auth, h.adminOnly)
		r.Get("/", h.trail)
	})
}

func (h *Handler) trail(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{
		ActionPrefix: r.URL.Query().Get("action"),
		EntityType:   r.URL.Query().Get("entity_type"),
		EntityID:     r.URL.Query().Get("entity_id"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}

	events, err := h.svc.Trail(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

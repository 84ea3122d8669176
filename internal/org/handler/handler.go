// Package handler exposes the organization registry.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"vouch/internal/org/models"
	"vouch/internal/org/service"
	"vouch/internal/platform/middleware"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/httputil"
)

type Handler struct {
	svc       *service.Service
	auth      func(http.Handler) http.Handler
	adminOnly func(http.Handler) http.Handler
	validate  *validator.Validate
	logger    *slog.Logger
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		auth:      middleware.RequireAuth(jwtValidator, logger),
		adminOnly: middleware.RequireRole(id.RoleAdmin, logger),
		validate:  validator.New(),
		logger:    logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/organizations", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{orgID}", h.get)

		r.Group(func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Put("/{orgID}/status", h.updateStatus)
		})
	})
}

type createRequest struct {
	Name               string `json:"name" validate:"required,max=200"`
	RegistrationNumber string `json:"registration_number" validate:"max=60"`
	ContactEmail       string `json:"contact_email" validate:"required,email"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "name and contact_email are required"))
		return
	}

	o, err := h.svc.Create(r.Context(), service.CreateInput{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		ContactEmail:       req.ContactEmail,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.svc.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	orgID, err := id.ParseOrgID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	o, err := h.svc.Get(r.Context(), orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=unverified pending verified"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orgID, err := id.ParseOrgID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req statusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "status must be unverified, pending, or verified"))
		return
	}
	status, err := models.ParseOrgStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), orgID, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, o)
}

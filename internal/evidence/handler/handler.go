// Package handler exposes evidence registration under the claim routes.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"vouch/internal/evidence/service"
	"vouch/internal/platform/middleware"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/httputil"
)

type Handler struct {
	svc      *service.Service
	auth     func(http.Handler) http.Handler
	validate *validator.Validate
	logger   *slog.Logger
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		auth:     middleware.RequireAuth(jwtValidator, logger),
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/claims/{claimID}/evidence", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.register)
		r.Get("/", h.list)
	})
}

type registerRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file_name, content_type, and size_bytes are required"))
		return
	}

	reg, err := h.svc.Register(r.Context(), claimID, service.RegisterInput{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	files, err := h.svc.ListByClaim(r.Context(), claimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"evidence": files})
}

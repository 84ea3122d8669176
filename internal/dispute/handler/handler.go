// Package handler exposes dispute intake and the admin review queue.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"vouch/internal/dispute/models"
	"vouch/internal/dispute/service"
	"vouch/internal/platform/middleware"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/httputil"
)

// ReportInvalidator drops cached public reports when a dispute takes a
// claim out of the verified state.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, claimID id.ClaimID)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, id.ClaimID) {}

type Handler struct {
	svc       *service.Service
	auth      func(http.Handler) http.Handler
	adminOnly func(http.Handler) http.Handler
	reports   ReportInvalidator
	validate  *validator.Validate
	logger    *slog.Logger
}

type Option func(*Handler)

// WithReportInvalidator wires cache invalidation for disputed claims.
func WithReportInvalidator(inv ReportInvalidator) Option {
	return func(h *Handler) { h.reports = inv }
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:       svc,
		auth:      middleware.RequireAuth(jwtValidator, logger),
		adminOnly: middleware.RequireRole(id.RoleAdmin, logger),
		reports:   noopInvalidator{},
		validate:  validator.New(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/disputes", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.open)
		r.Get("/{disputeID}", h.get)

		r.Group(func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Get("/", h.queue)
			r.Post("/{disputeID}/review", h.review)
			r.Post("/{disputeID}/resolve", h.resolve)
			r.Post("/{disputeID}/dismiss", h.dismiss)
		})
	})
}

type openRequest struct {
	ClaimID string `json:"claim_id" validate:"required,uuid4"`
	Reason  string `json:"reason" validate:"required,max=2000"`
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "claim_id and reason are required"))
		return
	}
	claimID, err := id.ParseClaimID(req.ClaimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	d, err := h.svc.Open(r.Context(), claimID, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// The claim just left the verified state; its cached report is stale.
	h.reports.Invalidate(r.Context(), claimID)
	httputil.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	disputeID, err := id.ParseDisputeID(chi.URLParam(r, "disputeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.svc.Get(r.Context(), disputeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) queue(w http.ResponseWriter, r *http.Request) {
	status := models.StatusOpen
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseDisputeStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = parsed
	}
	disputes, err := h.svc.Queue(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"disputes": disputes})
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	disputeID, err := id.ParseDisputeID(chi.URLParam(r, "disputeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.svc.Review(r.Context(), disputeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

type closeRequest struct {
	Notes string `json:"notes" validate:"required,max=2000"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.svc.Resolve)
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.svc.Dismiss)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, disputeID id.DisputeID, notes string) (*models.Dispute, error)) {
	disputeID, err := id.ParseDisputeID(chi.URLParam(r, "disputeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req closeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "notes are required"))
		return
	}

	d, err := op(r.Context(), disputeID, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

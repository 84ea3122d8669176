// Package handler exposes the claim lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	claimmodels "vouch/internal/claim/models"
	"vouch/internal/claim/service"
	"vouch/internal/platform/middleware"
	vmodels "vouch/internal/verification/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/httputil"
	"vouch/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

// ReportInvalidator drops cached public reports when a claim changes state.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, claimID id.ClaimID)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, id.ClaimID) {}

type Handler struct {
	svc      *service.Service
	auth     func(http.Handler) http.Handler
	reports  ReportInvalidator
	validate *validator.Validate
	logger   *slog.Logger
}

type Option func(*Handler)

// WithReportInvalidator wires cache invalidation for decided claims.
func WithReportInvalidator(inv ReportInvalidator) Option {
	return func(h *Handler) { h.reports = inv }
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:      svc,
		auth:     middleware.RequireAuth(jwtValidator, logger),
		reports:  noopInvalidator{},
		validate: validator.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/claims", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{claimID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Post("/submit", h.submit)
			r.Post("/decision", h.decide)
			r.Get("/verifications", h.ledger)
		})
	})
	r.Route("/verifications", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/inbox", h.inbox)
	})
}

type claimRequest struct {
	Title              string   `json:"title" validate:"required,max=200"`
	ClaimType          string   `json:"claim_type" validate:"required,max=60"`
	OrganizationName   string   `json:"organization_name" validate:"required,max=200"`
	SupervisorName     string   `json:"supervisor_name" validate:"required,max=120"`
	SupervisorContact  string   `json:"supervisor_contact" validate:"required,max=200"`
	StartDate          string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Description        string   `json:"description" validate:"required,max=4000"`
	SkillTags          []string `json:"skill_tags" validate:"max=20,dive,max=50"`
	EvidenceVisibility string   `json:"evidence_visibility" validate:"omitempty,oneof=public verifier_only"`
}

func (req claimRequest) toFields() (claimmodels.ClaimFields, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return claimmodels.ClaimFields{}, dErrors.New(dErrors.CodeValidation, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return claimmodels.ClaimFields{}, dErrors.New(dErrors.CodeValidation, "end_date must be YYYY-MM-DD")
	}
	visibility, err := claimmodels.ParseEvidenceVisibility(req.EvidenceVisibility)
	if err != nil {
		return claimmodels.ClaimFields{}, err
	}
	return claimmodels.ClaimFields{
		Title:             req.Title,
		ClaimType:         req.ClaimType,
		OrganizationName:  req.OrganizationName,
		SupervisorName:    req.SupervisorName,
		SupervisorContact: req.SupervisorContact,
		StartDate:         start,
		EndDate:           end,
		Description:       req.Description,
		SkillTags:         req.SkillTags,
		Visibility:        visibility,
	}, nil
}

func (h *Handler) decodeClaimRequest(r *http.Request) (claimmodels.ClaimFields, error) {
	var req claimRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return claimmodels.ClaimFields{}, err
	}
	if err := h.validate.Struct(req); err != nil {
		return claimmodels.ClaimFields{}, dErrors.New(dErrors.CodeValidation, "invalid claim payload")
	}
	return req.toFields()
}

func claimIDFrom(r *http.Request) (id.ClaimID, error) {
	return id.ParseClaimID(chi.URLParam(r, "claimID"))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	fields, err := h.decodeClaimRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), fields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	candidateID := requestcontext.Actor(r.Context()).ID
	if raw := r.URL.Query().Get("candidate_id"); raw != "" {
		parsed, err := id.ParseUserID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		candidateID = parsed
	}
	claims, err := h.svc.List(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.svc.Get(r.Context(), claimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fields, err := h.decodeClaimRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), claimID, fields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.svc.Submit(r.Context(), claimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

type decisionRequest struct {
	Outcome           string `json:"outcome" validate:"required,oneof=approved rejected"`
	Notes             string `json:"notes" validate:"max=2000"`
	RoleType          string `json:"role_type" validate:"max=60"`
	OrgID             string `json:"org_id" validate:"omitempty,uuid4"`
	VerifiedStartDate string `json:"verified_start_date" validate:"omitempty,datetime=2006-01-02"`
	VerifiedEndDate   string `json:"verified_end_date" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil        string `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
}

func (req decisionRequest) toInput() (service.DecisionInput, error) {
	outcome, err := vmodels.ParseOutcome(req.Outcome)
	if err != nil {
		return service.DecisionInput{}, err
	}
	input := service.DecisionInput{
		Outcome:  outcome,
		Notes:    req.Notes,
		RoleType: req.RoleType,
	}
	if req.OrgID != "" {
		orgID, err := id.ParseOrgID(req.OrgID)
		if err != nil {
			return service.DecisionInput{}, err
		}
		input.OrgID = &orgID
	}
	for _, f := range []struct {
		raw  string
		dst  **time.Time
		name string
	}{
		{req.VerifiedStartDate, &input.VerifiedStartDate, "verified_start_date"},
		{req.VerifiedEndDate, &input.VerifiedEndDate, "verified_end_date"},
		{req.ValidUntil, &input.ValidUntil, "valid_until"},
	} {
		if f.raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, f.raw)
		if err != nil {
			return service.DecisionInput{}, dErrors.New(dErrors.CodeValidation, f.name+" must be YYYY-MM-DD")
		}
		*f.dst = &t
	}
	return input, nil
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req decisionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid decision payload"))
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, rec, err := h.svc.Decide(r.Context(), claimID, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.reports.Invalidate(r.Context(), claimID)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"claim":        c,
		"verification": rec,
	})
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recs, err := h.svc.Ledger(r.Context(), claimID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"verifications": recs})
}

func (h *Handler) inbox(w http.ResponseWriter, r *http.Request) {
	claims, err := h.svc.PendingInbox(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

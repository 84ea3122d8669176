// Package service implements the organization registry.
package service

import (
	"context"
	"errors"
	"log/slog"

	auditmodels "vouch/internal/audit/models"
	"vouch/internal/org/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

type OrgStore interface {
	Create(ctx context.Context, o *models.Organization) error
	Get(ctx context.Context, orgID id.OrgID) (*models.Organization, error)
	Update(ctx context.Context, o *models.Organization) error
	List(ctx context.Context) ([]*models.Organization, error)
}

type AuditPublisher interface {
	Publish(ctx context.Context, event auditmodels.Event)
}

type noopAudit struct{}

func (noopAudit) Publish(context.Context, auditmodels.Event) {}

type Service struct {
	orgs   OrgStore
	logger *slog.Logger
	audit  AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) { s.audit = pub }
}

func New(orgs OrgStore, opts ...Option) *Service {
	s := &Service{orgs: orgs, logger: slog.Default(), audit: noopAudit{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries a new registry entry.
type CreateInput struct {
	Name               string
	RegistrationNumber string
	ContactEmail       string
}

// Create registers an organization. Any authenticated verifier, employer, or
// admin may add one; it starts unverified.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Organization, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if actor.Is(id.RoleCandidate) {
		return nil, dErrors.New(dErrors.CodeForbidden, "candidates cannot register organizations")
	}

	now := requestcontext.Now(ctx)
	o, err := models.NewOrganization(id.NewOrgID(), input.Name, input.RegistrationNumber, input.ContactEmail, now)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.Create(ctx, o); err != nil {
		return nil, translateStoreErr(err)
	}
	s.logger.InfoContext(ctx, "organization registered", "org_id", o.ID, "name", o.Name)
	return o, nil
}

func (s *Service) Get(ctx context.Context, orgID id.OrgID) (*models.Organization, error) {
	o, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Organization, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return orgs, nil
}

// UpdateStatus records an admin's vetting decision for a registry entry.
func (s *Service) UpdateStatus(ctx context.Context, orgID id.OrgID, status models.OrgStatus) (*models.Organization, error) {
	actor := requestcontext.Actor(ctx)
	if !actor.Is(id.RoleAdmin) {
		return nil, dErrors.New(dErrors.CodeForbidden, "admin role required")
	}

	o, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	now := requestcontext.Now(ctx)
	if err := o.SetStatus(status, now); err != nil {
		return nil, err
	}
	if err := s.orgs.Update(ctx, o); err != nil {
		return nil, translateStoreErr(err)
	}

	ev := auditmodels.NewEvent(auditmodels.ActionOrgStatusChanged, "organization", o.ID.String(), now)
	ev.ActorID = actor.ID
	ev.ActorRole = actor.Role
	ev.RequestID = requestcontext.RequestID(ctx)
	ev.Details = map[string]any{"status": string(status)}
	s.audit.Publish(ctx, ev)

	s.logger.InfoContext(ctx, "organization status changed", "org_id", o.ID, "status", status)
	return o, nil
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "organization not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "organization already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}

// Package service registers evidence file metadata against claims.
//
// Uploads are indirect: the service validates the metadata, reserves a
// storage key, and returns an upload location for the client to PUT the
// bytes to. The blob store itself is outside this process.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	auditmodels "vouch/internal/audit/models"
	claimmodels "vouch/internal/claim/models"
	"vouch/internal/evidence/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

type EvidenceStore interface {
	Create(ctx context.Context, f *models.EvidenceFile) error
	ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*models.EvidenceFile, error)
}

// ClaimReader reads claim state for ownership and visibility checks.
type ClaimReader interface {
	Get(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error)
}

type AuditPublisher interface {
	Publish(ctx context.Context, event auditmodels.Event)
}

type noopAudit struct{}

func (noopAudit) Publish(context.Context, auditmodels.Event) {}

type Service struct {
	files  EvidenceStore
	claims ClaimReader
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

func New(files EvidenceStore, claims ClaimReader, opts ...Option) *Service {
	s := &Service{files: files, claims: claims, logger: slog.Default(), audit: noopAudit{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput describes a file the claim owner intends to upload.
type RegisterInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
}

// Registration pairs stored metadata with the upload location.
type Registration struct {
	File      *models.EvidenceFile `json:"file"`
	UploadURL string               `json:"upload_url"`
}

// Register attaches file metadata to an editable claim owned by the caller.
func (s *Service) Register(ctx context.Context, claimID id.ClaimID, input RegisterInput) (*Registration, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if !c.OwnedBy(actor.ID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the claim owner may attach evidence")
	}
	if err := c.CanEdit(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	fileID := id.NewEvidenceID()
	storageKey := fmt.Sprintf("claims/%s/evidence/%s", claimID, fileID)
	f, err := models.NewEvidenceFile(fileID, claimID, actor.ID,
		input.FileName, input.ContentType, input.SizeBytes, storageKey, now)
	if err != nil {
		return nil, err
	}
	if err := s.files.Create(ctx, f); err != nil {
		return nil, translateStoreErr(err)
	}

	ev := auditmodels.NewEvent(auditmodels.ActionEvidenceRegistered, "evidence", f.ID.String(), now)
	ev.ActorID = actor.ID
	ev.ActorRole = actor.Role
	ev.RequestID = requestcontext.RequestID(ctx)
	ev.Details = map[string]any{"claim_id": claimID.String(), "file_name": f.FileName}
	s.audit.Publish(ctx, ev)

	s.logger.InfoContext(ctx, "evidence registered", "claim_id", claimID, "evidence_id", f.ID)
	return &Registration{File: f, UploadURL: "/uploads/" + storageKey}, nil
}

// ListByClaim returns evidence metadata subject to the claim's visibility:
// owners and admins always see it, verifiers see non-draft claims, and
// anyone may see it when the claim is verified with public evidence.
func (s *Service) ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*models.EvidenceFile, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	switch {
	case c.OwnedBy(actor.ID), actor.Is(id.RoleAdmin):
	case actor.Is(id.RoleVerifier) && c.Status != claimmodels.StatusDraft:
	case c.PubliclyVisible() && c.Visibility == claimmodels.VisibilityPublic:
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized to view this claim's evidence")
	}

	files, err := s.files.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return files, nil
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "claim not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}

// Package service implements dispute intake and the admin review queue.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	auditmodels "vouch/internal/audit/models"
	claimmodels "vouch/internal/claim/models"
	"vouch/internal/dispute/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

// DisputeStore is the persistence surface for disputes.
type DisputeStore interface {
	Create(ctx context.Context, d *models.Dispute) error
	Get(ctx context.Context, disputeID id.DisputeID) (*models.Dispute, error)
	Update(ctx context.Context, d *models.Dispute) error
	ListByStatus(ctx context.Context, status models.DisputeStatus) ([]*models.Dispute, error)
	ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*models.Dispute, error)
	HasOpenForClaim(ctx context.Context, claimID id.ClaimID) (bool, error)
}

// ClaimReader reads claim state without claim-service authorization; the
// dispute service applies its own access rules.
type ClaimReader interface {
	Get(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error)
}

// ClaimHook flips a decided claim into the disputed state.
type ClaimHook interface {
	MarkDisputed(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error)
}

// AuditPublisher receives audit trail events.
type AuditPublisher interface {
	Publish(ctx context.Context, event auditmodels.Event)
}

// Notifier delivers user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, recipient id.UserID, subject, body string)
}

type noopAudit struct{}

func (noopAudit) Publish(context.Context, auditmodels.Event) {}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, id.UserID, string, string) {}

type Service struct {
	disputes DisputeStore
	claims   ClaimReader
	hook     ClaimHook
	logger   *slog.Logger
	audit    AuditPublisher
	notify   Notifier
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) { s.audit = pub }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

func New(disputes DisputeStore, claims ClaimReader, hook ClaimHook, opts ...Option) *Service {
	s := &Service{
		disputes: disputes,
		claims:   claims,
		hook:     hook,
		logger:   slog.Default(),
		audit:    noopAudit{},
		notify:   noopNotifier{},
		tracer:   otel.Tracer("vouch/dispute"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open contests a decided claim. The claim owner, employers, and admins may
// open disputes; a claim carries at most one open dispute at a time.
func (s *Service) Open(ctx context.Context, claimID id.ClaimID, reason string) (*models.Dispute, error) {
	ctx, span := s.tracer.Start(ctx, "dispute.Open")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, translateClaimErr(err)
	}
	switch {
	case actor.Is(id.RoleAdmin), actor.Is(id.RoleEmployer):
	case actor.Is(id.RoleCandidate) && c.OwnedBy(actor.ID):
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized to dispute this claim")
	}
	if err := c.CanMarkDisputed(); err != nil {
		return nil, err
	}

	open, err := s.disputes.HasOpenForClaim(ctx, claimID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if open {
		return nil, dErrors.New(dErrors.CodeConflict, "claim already has an open dispute")
	}

	now := requestcontext.Now(ctx)
	d, err := models.NewDispute(id.NewDisputeID(), claimID, actor.ID, reason, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.hook.MarkDisputed(ctx, claimID); err != nil {
		return nil, err
	}
	if err := s.disputes.Create(ctx, d); err != nil {
		return nil, translateStoreErr(err)
	}

	s.publishEvent(ctx, auditmodels.ActionDisputeOpened, d, nil)
	s.notify.Notify(ctx, c.CandidateID, "Claim disputed",
		"Your claim \""+c.Title+"\" has been disputed and is awaiting review.")
	s.logger.InfoContext(ctx, "dispute opened",
		"dispute_id", d.ID, "claim_id", claimID, "raised_by", actor.ID)
	return d, nil
}

// Get returns a dispute to admins or the user who raised it.
func (s *Service) Get(ctx context.Context, disputeID id.DisputeID) (*models.Dispute, error) {
	ctx, span := s.tracer.Start(ctx, "dispute.Get")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.disputes.Get(ctx, disputeID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if !actor.Is(id.RoleAdmin) && !d.RaisedByUser(actor.ID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized to view this dispute")
	}
	return d, nil
}

// Queue lists disputes in the given state for the admin review queue.
func (s *Service) Queue(ctx context.Context, status models.DisputeStatus) ([]*models.Dispute, error) {
	ctx, span := s.tracer.Start(ctx, "dispute.Queue")
	defer span.End()

	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	disputes, err := s.disputes.ListByStatus(ctx, status)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return disputes, nil
}

// Review moves an open dispute under review.
func (s *Service) Review(ctx context.Context, disputeID id.DisputeID) (*models.Dispute, error) {
	ctx, span := s.tracer.Start(ctx, "dispute.Review")
	defer span.End()

	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	d, err := s.disputes.Get(ctx, disputeID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := d.CanReview(); err != nil {
		return nil, err
	}
	d.ApplyReview(requestcontext.Now(ctx))
	if err := s.disputes.Update(ctx, d); err != nil {
		return nil, translateStoreErr(err)
	}

	s.publishEvent(ctx, auditmodels.ActionDisputeReviewed, d, nil)
	return d, nil
}

// Resolve closes a dispute under review in the raiser's favor. The claim's
// stored status and score are left untouched; a correction, if warranted,
// happens through a fresh verification cycle.
func (s *Service) Resolve(ctx context.Context, disputeID id.DisputeID, notes string) (*models.Dispute, error) {
	return s.closeDispute(ctx, disputeID, notes, true)
}

// Dismiss closes a dispute under review without upholding it.
func (s *Service) Dismiss(ctx context.Context, disputeID id.DisputeID, notes string) (*models.Dispute, error) {
	return s.closeDispute(ctx, disputeID, notes, false)
}

func (s *Service) closeDispute(ctx context.Context, disputeID id.DisputeID, notes string, resolved bool) (*models.Dispute, error) {
	ctx, span := s.tracer.Start(ctx, "dispute.Close")
	defer span.End()

	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.disputes.Get(ctx, disputeID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := d.CanClose(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	action := auditmodels.ActionDisputeDismissed
	outcome := "dismissed"
	if resolved {
		d.ApplyResolution(admin.ID, notes, now)
		action = auditmodels.ActionDisputeResolved
		outcome = "resolved"
	} else {
		d.ApplyDismissal(admin.ID, notes, now)
	}
	if err := s.disputes.Update(ctx, d); err != nil {
		return nil, translateStoreErr(err)
	}

	s.publishEvent(ctx, action, d, map[string]any{"notes": notes})
	s.notify.Notify(ctx, d.RaisedBy, "Dispute "+outcome,
		"Your dispute has been "+outcome+". "+notes)
	s.logger.InfoContext(ctx, "dispute closed",
		"dispute_id", d.ID, "claim_id", d.ClaimID, "outcome", outcome)
	return d, nil
}

func (s *Service) publishEvent(ctx context.Context, action string, d *models.Dispute, details map[string]any) {
	ev := auditmodels.NewEvent(action, "dispute", d.ID.String(), requestcontext.Now(ctx))
	actor := requestcontext.Actor(ctx)
	ev.ActorID = actor.ID
	ev.ActorRole = actor.Role
	ev.RequestID = requestcontext.RequestID(ctx)
	ev.ClientIP = requestcontext.ClientIP(ctx)
	ev.UserAgent = requestcontext.UserAgent(ctx)
	if details == nil {
		details = map[string]any{}
	}
	details["claim_id"] = d.ClaimID.String()
	ev.Details = details
	s.audit.Publish(ctx, ev)
}

func requireActor(ctx context.Context) (id.Actor, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return id.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}

func requireAdmin(ctx context.Context) (id.Actor, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return id.Actor{}, err
	}
	if !actor.Is(id.RoleAdmin) {
		return id.Actor{}, dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return actor, nil
}

func translateClaimErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "claim not found")
	}
	return translateStoreErr(err)
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "dispute not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "dispute already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}

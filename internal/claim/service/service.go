// Package service implements the claim lifecycle: draft authoring,
// submission, verification decisions with credibility scoring, and the
// dispute hook. All transitions validate against current state before any
// write, and decision writes go through a per-claim transaction runner so
// the ledger append and the score commit land together.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vouch/internal/audit/models"
	claimmodels "vouch/internal/claim/models"
	"vouch/internal/claim/scoring"
	vmodels "vouch/internal/verification/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

// ClaimStore is the persistence surface for claim aggregates.
type ClaimStore interface {
	Create(ctx context.Context, c *claimmodels.Claim) error
	Get(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error)
	// GetForUpdate reads the claim while holding its write lock for the
	// remainder of the surrounding transaction.
	GetForUpdate(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error)
	Update(ctx context.Context, c *claimmodels.Claim) error
	ListByCandidate(ctx context.Context, candidateID id.UserID) ([]*claimmodels.Claim, error)
	ListByStatus(ctx context.Context, status claimmodels.ClaimStatus) ([]*claimmodels.Claim, error)
}

// LedgerStore is the append-only verification ledger.
type LedgerStore interface {
	Append(ctx context.Context, rec *vmodels.Record) error
	ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*vmodels.Record, error)
}

// TxRunner serializes work per claim. Implementations guarantee that two
// concurrent calls with the same key never run fn at the same time.
type TxRunner interface {
	Run(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// AuditPublisher receives audit trail events. Publishing never blocks the
// request path.
type AuditPublisher interface {
	Publish(ctx context.Context, event models.Event)
}

// Notifier delivers user-facing notifications. Failures are logged, not
// propagated.
type Notifier interface {
	Notify(ctx context.Context, recipient id.UserID, subject, body string)
}

// Metrics abstracts the Prometheus instruments so tests can run without a
// registry.
type Metrics interface {
	ClaimCreated()
	ClaimSubmitted()
	DecisionRecorded(outcome string)
	ClaimDisputed()
	ObserveScore(score float64)
}

type noopAudit struct{}

func (noopAudit) Publish(context.Context, models.Event) {}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, id.UserID, string, string) {}

type noopMetrics struct{}

func (noopMetrics) ClaimCreated()           {}
func (noopMetrics) ClaimSubmitted()         {}
func (noopMetrics) DecisionRecorded(string) {}
func (noopMetrics) ClaimDisputed()          {}
func (noopMetrics) ObserveScore(float64)    {}

// Service coordinates claim state transitions.
type Service struct {
	claims  ClaimStore
	ledger  LedgerStore
	tx      TxRunner
	logger  *slog.Logger
	audit   AuditPublisher
	notify  Notifier
	metrics Metrics
	tracer  trace.Tracer
}

// Option configures optional collaborators on the Service.
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

func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(claims ClaimStore, ledger LedgerStore, txr TxRunner, opts ...Option) *Service {
	s := &Service{
		claims:  claims,
		ledger:  ledger,
		tx:      txr,
		logger:  slog.Default(),
		audit:   noopAudit{},
		notify:  noopNotifier{},
		metrics: noopMetrics{},
		tracer:  otel.Tracer("vouch/claim"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new draft claim owned by the calling candidate.
func (s *Service) Create(ctx context.Context, fields claimmodels.ClaimFields) (*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Create")
	defer span.End()

	actor, err := requireRole(ctx, id.RoleCandidate)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	c, err := claimmodels.NewClaim(id.NewClaimID(), actor.ID, fields, now)
	if err != nil {
		return nil, err
	}
	if err := s.claims.Create(ctx, c); err != nil {
		return nil, translateStoreErr(err)
	}

	span.SetAttributes(attribute.String("claim.id", c.ID.String()))
	s.metrics.ClaimCreated()
	s.publishClaimEvent(ctx, models.ActionClaimCreated, c, nil)
	s.logger.InfoContext(ctx, "claim created",
		"claim_id", c.ID, "candidate_id", c.CandidateID, "claim_type", c.ClaimType)
	return c, nil
}

// Get returns a single claim. Owners and admins always see it; verifiers
// see anything past draft.
func (s *Service) Get(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Get")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := authorizeRead(actor, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns a candidate's claims. Candidates may only list their own;
// admins may list anyone's.
func (s *Service) List(ctx context.Context, candidateID id.UserID) ([]*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.List")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if actor.ID != candidateID && !actor.Is(id.RoleAdmin) {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot list another user's claims")
	}
	claims, err := s.claims.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return claims, nil
}

// Update replaces the descriptive fields of a draft or pending claim.
func (s *Service) Update(ctx context.Context, claimID id.ClaimID, fields claimmodels.ClaimFields) (*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Update")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	var updated *claimmodels.Claim
	err = s.tx.Run(ctx, claimID.String(), func(ctx context.Context) error {
		c, err := s.claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return translateStoreErr(err)
		}
		if !c.OwnedBy(actor.ID) {
			return dErrors.New(dErrors.CodeForbidden, "only the claim owner may edit it")
		}
		if err := c.ApplyUpdate(fields, requestcontext.Now(ctx)); err != nil {
			return err
		}
		if err := s.claims.Update(ctx, c); err != nil {
			return translateStoreErr(err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishClaimEvent(ctx, models.ActionClaimUpdated, updated, nil)
	return updated, nil
}

// Submit moves a draft into the verification queue.
func (s *Service) Submit(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Submit")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	var submitted *claimmodels.Claim
	err = s.tx.Run(ctx, claimID.String(), func(ctx context.Context) error {
		c, err := s.claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return translateStoreErr(err)
		}
		if !c.OwnedBy(actor.ID) {
			return dErrors.New(dErrors.CodeForbidden, "only the claim owner may submit it")
		}
		if err := c.CanSubmit(); err != nil {
			return err
		}
		c.ApplySubmission(requestcontext.Now(ctx))
		if err := s.claims.Update(ctx, c); err != nil {
			return translateStoreErr(err)
		}
		submitted = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ClaimSubmitted()
	s.publishClaimEvent(ctx, models.ActionClaimSubmitted, submitted, nil)
	s.notify.Notify(ctx, submitted.CandidateID,
		"Claim submitted", "Your claim \""+submitted.Title+"\" is now pending verification.")
	s.logger.InfoContext(ctx, "claim submitted", "claim_id", submitted.ID)
	return submitted, nil
}

// DecisionInput carries a verifier's attested outcome and optional
// attestation details.
type DecisionInput struct {
	Outcome           vmodels.Outcome
	Notes             string
	RoleType          string
	OrgID             *id.OrgID
	VerifiedStartDate *time.Time
	VerifiedEndDate   *time.Time
	ValidUntil        *time.Time
}

// Decide records a verification outcome against a pending claim. The ledger
// append, the status transition, and the credibility score commit happen in
// one per-claim transaction; a failed precondition leaves nothing written.
func (s *Service) Decide(ctx context.Context, claimID id.ClaimID, input DecisionInput) (*claimmodels.Claim, *vmodels.Record, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Decide",
		trace.WithAttributes(attribute.String("claim.id", claimID.String())))
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !actor.Is(id.RoleVerifier) && !actor.Is(id.RoleAdmin) {
		return nil, nil, dErrors.New(dErrors.CodeForbidden, "only verifiers may record decisions")
	}

	var (
		decided *claimmodels.Claim
		rec     *vmodels.Record
	)
	err = s.tx.Run(ctx, claimID.String(), func(ctx context.Context) error {
		c, err := s.claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return translateStoreErr(err)
		}
		if c.OwnedBy(actor.ID) {
			return dErrors.New(dErrors.CodeForbidden, "verifiers cannot decide their own claims")
		}
		if err := c.CanDecide(); err != nil {
			return err
		}

		now := requestcontext.Now(ctx)
		r, err := vmodels.NewRecord(id.NewVerificationID(), c.ID, actor.ID, input.Outcome, now)
		if err != nil {
			return err
		}
		r.Notes = input.Notes
		r.RoleType = input.RoleType
		r.OrgID = input.OrgID
		r.VerifiedStartDate = input.VerifiedStartDate
		r.VerifiedEndDate = input.VerifiedEndDate
		r.ValidUntil = input.ValidUntil

		ledger, err := s.ledger.ListByClaim(ctx, c.ID)
		if err != nil {
			return translateStoreErr(err)
		}
		ledger = append(ledger, r)

		approved := input.Outcome == vmodels.OutcomeApproved
		// Score against the post-decision status so the status gate sees
		// the outcome being committed.
		eval := *c
		if approved {
			eval.Status = claimmodels.StatusVerified
		} else {
			eval.Status = claimmodels.StatusRejected
		}
		score, breakdown := scoring.Score(&eval, ledger, now)

		c.ApplyDecision(approved, score, breakdown, now)
		if err := s.ledger.Append(ctx, r); err != nil {
			return translateStoreErr(err)
		}
		if err := s.claims.Update(ctx, c); err != nil {
			return translateStoreErr(err)
		}
		decided, rec = c, r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.metrics.DecisionRecorded(string(rec.Outcome))
	if decided.CredibilityScore != nil {
		s.metrics.ObserveScore(*decided.CredibilityScore)
	}
	action := models.ActionClaimRejected
	subject, body := "Claim rejected", "Your claim \""+decided.Title+"\" was rejected by a verifier."
	if decided.Status == claimmodels.StatusVerified {
		action = models.ActionClaimVerified
		subject, body = "Claim verified", "Your claim \""+decided.Title+"\" has been verified."
	}
	s.publishClaimEvent(ctx, action, decided, map[string]any{
		"verification_id": rec.ID.String(),
		"outcome":         string(rec.Outcome),
	})
	s.notify.Notify(ctx, decided.CandidateID, subject, body)
	s.logger.InfoContext(ctx, "decision recorded",
		"claim_id", decided.ID, "verification_id", rec.ID, "outcome", rec.Outcome,
		"status", decided.Status)
	return decided, rec, nil
}

// MarkDisputed flips a decided claim into the disputed state, preserving its
// score and breakdown. Authorization happens in the dispute service before
// this hook is called.
func (s *Service) MarkDisputed(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.MarkDisputed")
	defer span.End()

	var disputed *claimmodels.Claim
	err := s.tx.Run(ctx, claimID.String(), func(ctx context.Context) error {
		c, err := s.claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return translateStoreErr(err)
		}
		if err := c.CanMarkDisputed(); err != nil {
			return err
		}
		c.ApplyDisputed(requestcontext.Now(ctx))
		if err := s.claims.Update(ctx, c); err != nil {
			return translateStoreErr(err)
		}
		disputed = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ClaimDisputed()
	s.publishClaimEvent(ctx, models.ActionClaimDisputed, disputed, nil)
	return disputed, nil
}

// PendingInbox lists claims awaiting a decision, oldest first.
func (s *Service) PendingInbox(ctx context.Context) ([]*claimmodels.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claim.PendingInbox")
	defer span.End()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Is(id.RoleVerifier) && !actor.Is(id.RoleAdmin) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only verifiers may view the inbox")
	}
	claims, err := s.claims.ListByStatus(ctx, claimmodels.StatusPending)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return claims, nil
}

// Ledger lists the verification records for a claim, subject to the same
// read authorization as Get.
func (s *Service) Ledger(ctx context.Context, claimID id.ClaimID) ([]*vmodels.Record, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Ledger")
	defer span.End()

	if _, err := s.Get(ctx, claimID); err != nil {
		return nil, err
	}
	recs, err := s.ledger.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return recs, nil
}

func (s *Service) publishClaimEvent(ctx context.Context, action string, c *claimmodels.Claim, details map[string]any) {
	ev := models.NewEvent(action, "claim", c.ID.String(), requestcontext.Now(ctx))
	actor := requestcontext.Actor(ctx)
	ev.ActorID = actor.ID
	ev.ActorRole = actor.Role
	ev.RequestID = requestcontext.RequestID(ctx)
	ev.ClientIP = requestcontext.ClientIP(ctx)
	ev.UserAgent = requestcontext.UserAgent(ctx)
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

func requireRole(ctx context.Context, role id.Role) (id.Actor, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return id.Actor{}, err
	}
	if !actor.Is(role) {
		return id.Actor{}, dErrors.New(dErrors.CodeForbidden, "operation not permitted for role "+string(actor.Role))
	}
	return actor, nil
}

func authorizeRead(actor id.Actor, c *claimmodels.Claim) error {
	switch {
	case c.OwnedBy(actor.ID), actor.Is(id.RoleAdmin):
		return nil
	case actor.Is(id.RoleVerifier) && c.Status != claimmodels.StatusDraft:
		return nil
	default:
		return dErrors.New(dErrors.CodeForbidden, "not authorized to view this claim")
	}
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "claim not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "claim already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}

// Package service builds the public credibility report for verified claims.
//
// The report is the only unauthenticated read surface. It exposes a claim
// solely when the claim is verified; every other state answers not-found so
// outsiders cannot probe for drafts, rejections, or disputes.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	claimmodels "vouch/internal/claim/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

// ClaimReader reads claim state without service-level authorization.
type ClaimReader interface {
	Get(ctx context.Context, claimID id.ClaimID) (*claimmodels.Claim, error)
}

// LedgerReader counts verifications for the report summary. The report never
// exposes individual ledger records.
type LedgerReader interface {
	CountByClaim(ctx context.Context, claimID id.ClaimID) (int, error)
}

// Cache is the report cache surface, satisfied by the redis wrapper.
type Cache interface {
	GetReport(ctx context.Context, claimID id.ClaimID) (*Report, error)
	SetReport(ctx context.Context, report *Report) error
	InvalidateReport(ctx context.Context, claimID id.ClaimID) error
}

// Report is the public view of a verified claim.
type Report struct {
	ClaimID          id.ClaimID                   `json:"claim_id"`
	Title            string                       `json:"title"`
	ClaimType        string                       `json:"claim_type"`
	OrganizationName string                       `json:"organization_name"`
	StartDate        time.Time                    `json:"start_date"`
	EndDate          time.Time                    `json:"end_date"`
	SkillTags        []string                     `json:"skill_tags,omitempty"`
	CredibilityScore float64                      `json:"credibility_score"`
	Breakdown        []claimmodels.ScoreBreakdown `json:"credibility_breakdown"`
	Verifications    int                          `json:"verification_count"`
	GeneratedAt      time.Time                    `json:"generated_at"`
}

type Service struct {
	claims ClaimReader
	ledger LedgerReader
	cache  Cache
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache attaches a report cache. Without one every read rebuilds the
// report from storage.
func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

func New(claims ClaimReader, ledger LedgerReader, opts ...Option) *Service {
	s := &Service{claims: claims, ledger: ledger, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the public report for a verified claim. Cache misses and cache
// failures both fall through to storage.
func (s *Service) Get(ctx context.Context, claimID id.ClaimID) (*Report, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetReport(ctx, claimID); err != nil {
			s.logger.WarnContext(ctx, "report cache read failed", "claim_id", claimID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim")
	}
	if !c.PubliclyVisible() {
		return nil, notFound()
	}

	count, err := s.ledger.CountByClaim(ctx, claimID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verifications")
	}

	var score float64
	if c.CredibilityScore != nil {
		score = *c.CredibilityScore
	}
	report := &Report{
		ClaimID:          c.ID,
		Title:            c.Title,
		ClaimType:        c.ClaimType,
		OrganizationName: c.OrganizationName,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		SkillTags:        c.SkillTags,
		CredibilityScore: score,
		Breakdown:        c.CredibilityBreakdown,
		Verifications:    count,
		GeneratedAt:      requestcontext.Now(ctx).UTC(),
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, report); err != nil {
			s.logger.WarnContext(ctx, "report cache write failed", "claim_id", claimID, "error", err)
		}
	}
	return report, nil
}

// Invalidate drops the cached report after a claim changes state.
func (s *Service) Invalidate(ctx context.Context, claimID id.ClaimID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateReport(ctx, claimID); err != nil {
		s.logger.WarnContext(ctx, "report cache invalidation failed", "claim_id", claimID, "error", err)
	}
}

func notFound() error {
	return dErrors.New(dErrors.CodeNotFound, "no public report for this claim")
}

// MarshalBinary makes Report storable by go-redis directly.
func (r *Report) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalBinary restores a Report from a cache hit.
func (r *Report) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	claimmodels "vouch/internal/claim/models"
	claimstore "vouch/internal/claim/store"
	"vouch/internal/report/service"
	vmodels "vouch/internal/verification/models"
	vstore "vouch/internal/verification/store"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

type memoryCache struct {
	reports map[id.ClaimID]*service.Report
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{reports: make(map[id.ClaimID]*service.Report)}
}

func (c *memoryCache) GetReport(_ context.Context, claimID id.ClaimID) (*service.Report, error) {
	if r, ok := c.reports[claimID]; ok {
		c.hits++
		return r, nil
	}
	return nil, nil
}

func (c *memoryCache) SetReport(_ context.Context, report *service.Report) error {
	c.reports[report.ClaimID] = report
	return nil
}

func (c *memoryCache) InvalidateReport(_ context.Context, claimID id.ClaimID) error {
	delete(c.reports, claimID)
	return nil
}

type ServiceSuite struct {
	suite.Suite

	claims *claimstore.InMemory
	ledger *vstore.InMemory
	cache  *memoryCache
	svc    *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.claims = claimstore.NewInMemory()
	s.ledger = vstore.NewInMemory()
	s.cache = newMemoryCache()
	s.svc = service.New(s.claims, s.ledger, service.WithCache(s.cache))
}

func (s *ServiceSuite) seedClaim(status claimmodels.ClaimStatus) *claimmodels.Claim {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c, err := claimmodels.NewClaim(id.NewClaimID(), id.NewUserID(), claimmodels.ClaimFields{
		Title:             "Field Coordinator",
		ClaimType:         "volunteer",
		OrganizationName:  "Coastal Cleanup Collective",
		SupervisorName:    "D. Abeysekera",
		SupervisorContact: "d.abeysekera@example.org",
		StartDate:         time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		Description:       "Coordinated weekend beach cleanups.",
		SkillTags:         []string{"logistics"},
		Visibility:        claimmodels.VisibilityPublic,
	}, now)
	s.Require().NoError(err)
	if status == claimmodels.StatusVerified {
		score := 55.0
		c.Status = claimmodels.StatusVerified
		c.CredibilityScore = &score
		c.CredibilityBreakdown = []claimmodels.ScoreBreakdown{
			{Factor: "verification_count", Score: 15, Reason: "Single verification completed"},
		}
	} else {
		c.Status = status
	}
	s.Require().NoError(s.claims.Create(context.Background(), c))
	return c
}

func (s *ServiceSuite) TestVerifiedClaimProducesReport() {
	c := s.seedClaim(claimmodels.StatusVerified)

	report, err := s.svc.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, report.ClaimID)
	s.InDelta(55.0, report.CredibilityScore, 0.001)
	s.NotEmpty(report.Breakdown)
	s.Zero(report.Verifications)
}

func (s *ServiceSuite) TestReportCountsLedgerRecords() {
	c := s.seedClaim(claimmodels.StatusVerified)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for range 2 {
		rec, err := vmodels.NewRecord(id.NewVerificationID(), c.ID, id.NewUserID(), vmodels.OutcomeApproved, now)
		s.Require().NoError(err)
		s.Require().NoError(s.ledger.Append(context.Background(), rec))
	}

	report, err := s.svc.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(2, report.Verifications)
}

func (s *ServiceSuite) TestSecondReadServedFromCache() {
	c := s.seedClaim(claimmodels.StatusVerified)

	_, err := s.svc.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	_, err = s.svc.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(1, s.cache.hits)
}

func (s *ServiceSuite) TestNonVerifiedStatusesAnswerNotFound() {
	for _, status := range []claimmodels.ClaimStatus{
		claimmodels.StatusDraft,
		claimmodels.StatusPending,
		claimmodels.StatusRejected,
		claimmodels.StatusDisputed,
		claimmodels.StatusExpired,
	} {
		c := s.seedClaim(status)
		_, err := s.svc.Get(context.Background(), c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), string(status))
	}
}

func (s *ServiceSuite) TestUnknownClaimNotFound() {
	_, err := s.svc.Get(context.Background(), id.NewClaimID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestInvalidateDropsCachedReport() {
	c := s.seedClaim(claimmodels.StatusVerified)
	_, err := s.svc.Get(context.Background(), c.ID)
	s.Require().NoError(err)

	s.svc.Invalidate(context.Background(), c.ID)
	_, err = s.svc.Get(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Zero(s.cache.hits)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	claimmodels "vouch/internal/claim/models"
	claimstore "vouch/internal/claim/store"
	"vouch/internal/evidence/service"
	"vouch/internal/evidence/store"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/requestcontext"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite

	claims    *claimstore.InMemory
	svc       *service.Service
	candidate id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.claims = claimstore.NewInMemory()
	s.svc = service.New(store.NewInMemory(), s.claims)
	s.candidate = id.NewUserID()
}

func (s *ServiceSuite) ctxAs(userID id.UserID, role id.Role) context.Context {
	ctx := requestcontext.WithActor(context.Background(), id.Actor{ID: userID, Role: role})
	return requestcontext.WithTime(ctx, testNow)
}

func (s *ServiceSuite) seedClaim(status claimmodels.ClaimStatus, visibility claimmodels.EvidenceVisibility) *claimmodels.Claim {
	c, err := claimmodels.NewClaim(id.NewClaimID(), s.candidate, claimmodels.ClaimFields{
		Title:             "Research Assistant",
		ClaimType:         "employment",
		OrganizationName:  "Marine Research Station",
		SupervisorName:    "T. Wijeratne",
		SupervisorContact: "t.wijeratne@example.org",
		StartDate:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		Description:       "Tagged reef fish populations.",
		Visibility:        visibility,
	}, testNow)
	s.Require().NoError(err)
	c.Status = status
	s.Require().NoError(s.claims.Create(context.Background(), c))
	return c
}

func pdfInput() service.RegisterInput {
	return service.RegisterInput{
		FileName:    "reference-letter.pdf",
		ContentType: "application/pdf",
		SizeBytes:   120_000,
	}
}

func (s *ServiceSuite) TestRegisterOnDraftClaim() {
	c := s.seedClaim(claimmodels.StatusDraft, claimmodels.VisibilityVerifierOnly)

	reg, err := s.svc.Register(s.ctxAs(s.candidate, id.RoleCandidate), c.ID, pdfInput())
	s.Require().NoError(err)
	s.Equal(c.ID, reg.File.ClaimID)
	s.Contains(reg.File.StorageKey, c.ID.String())
	s.NotEmpty(reg.UploadURL)
}

func (s *ServiceSuite) TestRegisterRejectedOnDecidedClaim() {
	c := s.seedClaim(claimmodels.StatusVerified, claimmodels.VisibilityPublic)
	_, err := s.svc.Register(s.ctxAs(s.candidate, id.RoleCandidate), c.ID, pdfInput())
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestRegisterByStrangerForbidden() {
	c := s.seedClaim(claimmodels.StatusDraft, claimmodels.VisibilityVerifierOnly)
	_, err := s.svc.Register(s.ctxAs(id.NewUserID(), id.RoleCandidate), c.ID, pdfInput())
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestRegisterRejectsUnknownContentType() {
	c := s.seedClaim(claimmodels.StatusDraft, claimmodels.VisibilityVerifierOnly)
	input := pdfInput()
	input.ContentType = "application/zip"
	_, err := s.svc.Register(s.ctxAs(s.candidate, id.RoleCandidate), c.ID, input)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestListVisibility() {
	c := s.seedClaim(claimmodels.StatusDraft, claimmodels.VisibilityVerifierOnly)
	_, err := s.svc.Register(s.ctxAs(s.candidate, id.RoleCandidate), c.ID, pdfInput())
	s.Require().NoError(err)

	// Owner sees draft evidence; verifiers do not.
	files, err := s.svc.ListByClaim(s.ctxAs(s.candidate, id.RoleCandidate), c.ID)
	s.Require().NoError(err)
	s.Len(files, 1)

	_, err = s.svc.ListByClaim(s.ctxAs(id.NewUserID(), id.RoleVerifier), c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestPublicEvidenceVisibleOnVerifiedClaim() {
	c := s.seedClaim(claimmodels.StatusVerified, claimmodels.VisibilityPublic)
	_, err := s.svc.ListByClaim(s.ctxAs(id.NewUserID(), id.RoleEmployer), c.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestVerifierOnlyEvidenceHiddenFromEmployers() {
	c := s.seedClaim(claimmodels.StatusVerified, claimmodels.VisibilityVerifierOnly)
	_, err := s.svc.ListByClaim(s.ctxAs(id.NewUserID(), id.RoleEmployer), c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

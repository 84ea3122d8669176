package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vouch/internal/org/models"
	"vouch/internal/org/service"
	"vouch/internal/org/store"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	svc *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.svc = service.New(store.NewInMemory())
}

func (s *ServiceSuite) ctxAs(role id.Role) context.Context {
	ctx := requestcontext.WithActor(context.Background(), id.Actor{ID: id.NewUserID(), Role: role})
	return requestcontext.WithTime(ctx, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
}

func (s *ServiceSuite) TestCreateStartsUnverified() {
	o, err := s.svc.Create(s.ctxAs(id.RoleVerifier), service.CreateInput{
		Name:         "Lanka Software Foundation",
		ContactEmail: "info@example.org",
	})
	s.Require().NoError(err)
	s.Equal(models.OrgUnverified, o.Status)
}

func (s *ServiceSuite) TestCandidatesCannotRegisterOrgs() {
	_, err := s.svc.Create(s.ctxAs(id.RoleCandidate), service.CreateInput{
		Name:         "Shadow Org",
		ContactEmail: "x@example.org",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestUpdateStatusAdminOnly() {
	o, err := s.svc.Create(s.ctxAs(id.RoleEmployer), service.CreateInput{
		Name:         "Suwa Sewa Trust",
		ContactEmail: "trust@example.org",
	})
	s.Require().NoError(err)

	_, err = s.svc.UpdateStatus(s.ctxAs(id.RoleVerifier), o.ID, models.OrgVerified)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	updated, err := s.svc.UpdateStatus(s.ctxAs(id.RoleAdmin), o.ID, models.OrgVerified)
	s.Require().NoError(err)
	s.Equal(models.OrgVerified, updated.Status)
}

func (s *ServiceSuite) TestUpdateStatusUnknownOrgNotFound() {
	_, err := s.svc.UpdateStatus(s.ctxAs(id.RoleAdmin), id.NewOrgID(), models.OrgPending)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListSortedByName() {
	_, err := s.svc.Create(s.ctxAs(id.RoleVerifier), service.CreateInput{Name: "Zebra Labs", ContactEmail: "z@example.org"})
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctxAs(id.RoleVerifier), service.CreateInput{Name: "Apex Holdings", ContactEmail: "a@example.org"})
	s.Require().NoError(err)

	orgs, err := s.svc.List(s.ctxAs(id.RoleCandidate))
	s.Require().NoError(err)
	s.Require().Len(orgs, 2)
	s.Equal("Apex Holdings", orgs[0].Name)
}

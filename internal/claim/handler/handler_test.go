package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"vouch/internal/claim/handler"
	"vouch/internal/claim/service"
	claimstore "vouch/internal/claim/store"
	"vouch/internal/platform/middleware"
	vstore "vouch/internal/verification/store"
	id "vouch/pkg/domain"
)

// stubValidator maps bearer tokens straight to claims, standing in for the
// JWT service in handler tests.
type stubValidator struct {
	tokens map[string]middleware.JWTClaims
}

func (v *stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	claims, ok := v.tokens[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &claims, nil
}

type HandlerSuite struct {
	suite.Suite

	router    chi.Router
	candidate id.UserID
	verifier  id.UserID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.candidate = id.NewUserID()
	s.verifier = id.NewUserID()

	validator := &stubValidator{tokens: map[string]middleware.JWTClaims{
		"candidate-token": {UserID: s.candidate, Role: id.RoleCandidate},
		"verifier-token":  {UserID: s.verifier, Role: id.RoleVerifier},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(claimstore.NewInMemory(), vstore.NewInMemory(), service.NewShardedMutexTx(),
		service.WithLogger(logger))

	s.router = chi.NewRouter()
	s.router.Use(middleware.RequestTime)
	handler.New(svc, validator, logger).Register(s.router)
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validPayload() map[string]any {
	return map[string]any{
		"title":               "Backend Engineering Intern",
		"claim_type":          "internship",
		"organization_name":   "Lanka Software Foundation",
		"supervisor_name":     "N. Perera",
		"supervisor_contact":  "n.perera@example.org",
		"start_date":          "2025-01-01",
		"end_date":            "2025-06-30",
		"description":         "Built the payments reconciliation pipeline.",
		"skill_tags":          []string{"go"},
		"evidence_visibility": "public",
	}
}

func (s *HandlerSuite) createClaim() string {
	rec := s.do(http.MethodPost, "/claims", "candidate-token", validPayload())
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func (s *HandlerSuite) TestCreateReturns201() {
	claimID := s.createClaim()
	s.NotEmpty(claimID)
}

func (s *HandlerSuite) TestCreateWithoutTokenReturns401() {
	rec := s.do(http.MethodPost, "/claims", "", validPayload())
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestCreateWithBadDateReturns422() {
	payload := validPayload()
	payload["start_date"] = "January 1st"
	rec := s.do(http.MethodPost, "/claims", "candidate-token", payload)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestCreateWithMalformedBodyReturns400() {
	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer candidate-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSubmitAndDecideFlow() {
	claimID := s.createClaim()

	rec := s.do(http.MethodPost, "/claims/"+claimID+"/submit", "candidate-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/claims/"+claimID+"/decision", "verifier-token",
		map[string]any{"outcome": "approved", "notes": "confirmed with supervisor"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var decided struct {
		Claim struct {
			Status           string   `json:"status"`
			CredibilityScore *float64 `json:"credibility_score"`
		} `json:"claim"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decided))
	s.Equal("verified", decided.Claim.Status)
	s.NotNil(decided.Claim.CredibilityScore)
}

func (s *HandlerSuite) TestDecideDraftReturns409() {
	claimID := s.createClaim()
	rec := s.do(http.MethodPost, "/claims/"+claimID+"/decision", "verifier-token",
		map[string]any{"outcome": "approved"})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestDecideByCandidateReturns403() {
	claimID := s.createClaim()
	s.do(http.MethodPost, "/claims/"+claimID+"/submit", "candidate-token", nil)

	rec := s.do(http.MethodPost, "/claims/"+claimID+"/decision", "candidate-token",
		map[string]any{"outcome": "approved"})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestInboxListsPendingClaims() {
	claimID := s.createClaim()
	s.do(http.MethodPost, "/claims/"+claimID+"/submit", "candidate-token", nil)

	rec := s.do(http.MethodGet, "/verifications/inbox", "verifier-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var inbox struct {
		Claims []struct {
			ID string `json:"id"`
		} `json:"claims"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &inbox))
	s.Require().Len(inbox.Claims, 1)
	s.Equal(claimID, inbox.Claims[0].ID)
}

func (s *HandlerSuite) TestGetWithMalformedIDReturns400() {
	rec := s.do(http.MethodGet, "/claims/not-a-uuid", "candidate-token", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestListReturnsOwnClaims() {
	s.createClaim()
	rec := s.do(http.MethodGet, "/claims", "candidate-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var list struct {
		Claims []json.RawMessage `json:"claims"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Len(list.Claims, 1)
}

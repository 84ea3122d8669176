package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

var now = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

func validFields() ClaimFields {
	return ClaimFields{
		Title:             "Warehouse Volunteer",
		ClaimType:         "volunteering",
		OrganizationName:  "GreenHands",
		SupervisorName:    "Jane Perera",
		SupervisorContact: "jane@greenhands.lk",
		StartDate:         time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		Description:       "Coordinated weekend food distribution",
		SkillTags:         []string{"coordination"},
		Visibility:        VisibilityPublic,
	}
}

func newDraft(t *testing.T) *Claim {
	t.Helper()
	claim, err := NewClaim(id.NewClaimID(), id.NewUserID(), validFields(), now)
	require.NoError(t, err)
	return claim
}

func TestNewClaimValidation(t *testing.T) {
	t.Run("valid fields produce a draft", func(t *testing.T) {
		claim := newDraft(t)
		assert.Equal(t, StatusDraft, claim.Status)
		assert.Nil(t, claim.CredibilityScore)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		fields := validFields()
		fields.StartDate, fields.EndDate = fields.EndDate, fields.StartDate
		_, err := NewClaim(id.NewClaimID(), id.NewUserID(), fields, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects missing mandatory fields", func(t *testing.T) {
		for name, mutate := range map[string]func(*ClaimFields){
			"title":              func(f *ClaimFields) { f.Title = "" },
			"claim_type":         func(f *ClaimFields) { f.ClaimType = "" },
			"organization_name":  func(f *ClaimFields) { f.OrganizationName = "" },
			"supervisor_name":    func(f *ClaimFields) { f.SupervisorName = "" },
			"supervisor_contact": func(f *ClaimFields) { f.SupervisorContact = "" },
			"description":        func(f *ClaimFields) { f.Description = "" },
		} {
			fields := validFields()
			mutate(&fields)
			_, err := NewClaim(id.NewClaimID(), id.NewUserID(), fields, now)
			require.Error(t, err, "expected %s to be mandatory", name)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}

func TestEditPrecondition(t *testing.T) {
	t.Run("draft and pending accept edits", func(t *testing.T) {
		claim := newDraft(t)
		require.NoError(t, claim.CanEdit())

		claim.ApplySubmission(now)
		require.NoError(t, claim.CanEdit())
	})

	t.Run("decided and disputed claims reject edits", func(t *testing.T) {
		for _, status := range []ClaimStatus{StatusVerified, StatusRejected, StatusDisputed, StatusExpired} {
			claim := newDraft(t)
			claim.Status = status
			err := claim.CanEdit()
			require.Error(t, err, "status %s", status)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		}
	})
}

func TestSubmission(t *testing.T) {
	t.Run("draft to pending", func(t *testing.T) {
		claim := newDraft(t)
		require.NoError(t, claim.CanSubmit())
		claim.ApplySubmission(now)
		assert.Equal(t, StatusPending, claim.Status)
	})

	t.Run("double submit is invalid state", func(t *testing.T) {
		claim := newDraft(t)
		claim.ApplySubmission(now)
		err := claim.CanSubmit()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	t.Run("verified claims cannot be resubmitted", func(t *testing.T) {
		claim := newDraft(t)
		claim.Status = StatusVerified
		require.Error(t, claim.CanSubmit())
	})
}

func TestDecision(t *testing.T) {
	t.Run("only pending claims accept decisions", func(t *testing.T) {
		for _, status := range []ClaimStatus{StatusDraft, StatusVerified, StatusRejected, StatusDisputed} {
			claim := newDraft(t)
			claim.Status = status
			err := claim.CanDecide()
			require.Error(t, err, "status %s", status)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
		}
	})

	t.Run("approval stores score and breakdown", func(t *testing.T) {
		claim := newDraft(t)
		claim.ApplySubmission(now)
		require.NoError(t, claim.CanDecide())

		breakdown := []ScoreBreakdown{{Factor: "recency", Score: 15, Reason: "Completed within last 12 months"}}
		claim.ApplyDecision(true, 46, breakdown, now)

		assert.Equal(t, StatusVerified, claim.Status)
		require.NotNil(t, claim.CredibilityScore)
		assert.Equal(t, 46.0, *claim.CredibilityScore)
		assert.Equal(t, breakdown, claim.CredibilityBreakdown)
	})

	t.Run("rejection stores zero score", func(t *testing.T) {
		claim := newDraft(t)
		claim.ApplySubmission(now)

		claim.ApplyDecision(false, 0, []ScoreBreakdown{{Factor: "status", Score: 0, Reason: "Claim not verified"}}, now)

		assert.Equal(t, StatusRejected, claim.Status)
		require.NotNil(t, claim.CredibilityScore)
		assert.Zero(t, *claim.CredibilityScore)
		require.Len(t, claim.CredibilityBreakdown, 1)
	})
}

func TestDisputeHook(t *testing.T) {
	t.Run("decided claims can be disputed, score preserved", func(t *testing.T) {
		claim := newDraft(t)
		claim.ApplySubmission(now)
		claim.ApplyDecision(true, 46, []ScoreBreakdown{{Factor: "recency", Score: 15, Reason: "Completed within last 12 months"}}, now)

		require.NoError(t, claim.CanMarkDisputed())
		claim.ApplyDisputed(now)

		assert.Equal(t, StatusDisputed, claim.Status)
		require.NotNil(t, claim.CredibilityScore)
		assert.Equal(t, 46.0, *claim.CredibilityScore)
	})

	t.Run("draft and pending claims cannot be disputed", func(t *testing.T) {
		for _, status := range []ClaimStatus{StatusDraft, StatusPending} {
			claim := newDraft(t)
			claim.Status = status
			err := claim.CanMarkDisputed()
			require.Error(t, err, "status %s", status)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		}
	})

	t.Run("disputed claims can be re-disputed", func(t *testing.T) {
		claim := newDraft(t)
		claim.Status = StatusDisputed
		assert.NoError(t, claim.CanMarkDisputed())
	})
}

func TestPublicVisibility(t *testing.T) {
	claim := newDraft(t)
	assert.False(t, claim.PubliclyVisible())

	claim.Status = StatusVerified
	assert.True(t, claim.PubliclyVisible())

	claim.Status = StatusDisputed
	assert.False(t, claim.PubliclyVisible())
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

func TestParseOutcome(t *testing.T) {
	for _, valid := range []string{"approved", "rejected"} {
		got, err := ParseOutcome(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, got.String())
	}

	_, err := ParseOutcome("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = ParseOutcome("maybe")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	claimID := id.NewClaimID()
	verifierID := id.NewUserID()

	t.Run("valid", func(t *testing.T) {
		rec, err := NewRecord(id.NewVerificationID(), claimID, verifierID, OutcomeApproved, now)
		require.NoError(t, err)
		assert.Equal(t, claimID, rec.ClaimID)
		assert.Equal(t, OutcomeApproved, rec.Outcome)
		assert.Equal(t, now, rec.CreatedAt)
		assert.Nil(t, rec.ValidUntil)
	})

	t.Run("nil claim id", func(t *testing.T) {
		_, err := NewRecord(id.NewVerificationID(), id.ClaimID{}, verifierID, OutcomeApproved, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("nil verifier id", func(t *testing.T) {
		_, err := NewRecord(id.NewVerificationID(), claimID, id.UserID{}, OutcomeApproved, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("bad outcome", func(t *testing.T) {
		_, err := NewRecord(id.NewVerificationID(), claimID, verifierID, Outcome("pending"), now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

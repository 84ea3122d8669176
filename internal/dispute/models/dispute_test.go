package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/dispute/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

var now = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func newOpenDispute(t *testing.T) *models.Dispute {
	t.Helper()
	d, err := models.NewDispute(id.NewDisputeID(), id.NewClaimID(), id.NewUserID(), "dates are wrong", now)
	require.NoError(t, err)
	return d
}

func TestNewDisputeStartsOpen(t *testing.T) {
	d := newOpenDispute(t)
	assert.Equal(t, models.StatusOpen, d.Status)
	assert.Nil(t, d.ResolvedAt)
	assert.False(t, d.Status.Closed())
}

func TestNewDisputeRequiresReason(t *testing.T) {
	_, err := models.NewDispute(id.NewDisputeID(), id.NewClaimID(), id.NewUserID(), "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestReviewTransition(t *testing.T) {
	d := newOpenDispute(t)
	require.NoError(t, d.CanReview())
	d.ApplyReview(now)
	assert.Equal(t, models.StatusUnderReview, d.Status)

	// Already under review, cannot re-enter.
	err := d.CanReview()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func TestCloseRequiresReview(t *testing.T) {
	d := newOpenDispute(t)
	err := d.CanClose()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func TestResolveFromReview(t *testing.T) {
	d := newOpenDispute(t)
	d.ApplyReview(now)
	require.NoError(t, d.CanClose())

	admin := id.NewUserID()
	d.ApplyResolution(admin, "verifier confirmed the dates", now.Add(time.Hour))

	assert.Equal(t, models.StatusResolved, d.Status)
	assert.True(t, d.Status.Closed())
	require.NotNil(t, d.ResolvedBy)
	assert.Equal(t, admin, *d.ResolvedBy)
	require.NotNil(t, d.ResolvedAt)
	assert.Equal(t, "verifier confirmed the dates", d.ResolutionNotes)
}

func TestDismissFromReview(t *testing.T) {
	d := newOpenDispute(t)
	d.ApplyReview(now)
	d.ApplyDismissal(id.NewUserID(), "no supporting evidence", now)

	assert.Equal(t, models.StatusDismissed, d.Status)
	assert.True(t, d.Status.Closed())
}

func TestClosedDisputeCannotReopen(t *testing.T) {
	d := newOpenDispute(t)
	d.ApplyReview(now)
	d.ApplyResolution(id.NewUserID(), "done", now)

	assert.True(t, dErrors.HasCode(d.CanReview(), dErrors.CodeInvalidTransition))
	assert.True(t, dErrors.HasCode(d.CanClose(), dErrors.CodeInvalidTransition))
}

func TestParseDisputeStatus(t *testing.T) {
	for _, s := range []string{"open", "under_review", "resolved", "dismissed"} {
		parsed, err := models.ParseDisputeStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}
	_, err := models.ParseDisputeStatus("escalated")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

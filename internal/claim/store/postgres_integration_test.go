//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/claim/models"
	"vouch/internal/claim/store"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/testutil/containers"
	"vouch/pkg/platform/tx"
)

func seedCandidate(t *testing.T, pool *pgxpool.Pool) id.UserID {
	t.Helper()
	userID := id.NewUserID()
	now := time.Now().UTC()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, email, full_name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, 'Integration Candidate', 'candidate', '\x00', $3, $3)`,
		userID, userID.String()+"@example.org", now)
	require.NoError(t, err)
	return userID
}

func newClaim(t *testing.T, candidateID id.UserID) *models.Claim {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	c, err := models.NewClaim(id.NewClaimID(), candidateID, models.ClaimFields{
		Title:             "Integration Test Claim",
		ClaimType:         "employment",
		OrganizationName:  "Test Org",
		SupervisorName:    "Supervisor",
		SupervisorContact: "supervisor@example.org",
		StartDate:         now.AddDate(-1, 0, 0),
		EndDate:           now.AddDate(0, -2, 0),
		Description:       "Round-trip through postgres.",
		SkillTags:         []string{"go", "sql"},
		Visibility:        models.VisibilityPublic,
	}, now)
	require.NoError(t, err)
	return c
}

func TestPostgresClaimStore(t *testing.T) {
	pool := containers.StartPostgres(t)
	s := store.NewPostgres(pool)
	ctx := context.Background()
	candidateID := seedCandidate(t, pool)

	t.Run("round trip", func(t *testing.T) {
		c := newClaim(t, candidateID)
		require.NoError(t, s.Create(ctx, c))

		got, err := s.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Title, got.Title)
		assert.Equal(t, c.SkillTags, got.SkillTags)
		assert.Equal(t, models.StatusDraft, got.Status)
		assert.Nil(t, got.CredibilityScore)
	})

	t.Run("update persists score and breakdown", func(t *testing.T) {
		c := newClaim(t, candidateID)
		require.NoError(t, s.Create(ctx, c))

		score := 45.0
		c.Status = models.StatusVerified
		c.CredibilityScore = &score
		c.CredibilityBreakdown = []models.ScoreBreakdown{
			{Factor: "verification_count", Score: 15, Reason: "Single verification completed"},
		}
		require.NoError(t, s.Update(ctx, c))

		got, err := s.Get(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CredibilityScore)
		assert.InDelta(t, 45.0, *got.CredibilityScore, 0.001)
		require.Len(t, got.CredibilityBreakdown, 1)
		assert.Equal(t, "Single verification completed", got.CredibilityBreakdown[0].Reason)
	})

	t.Run("missing claim yields sentinel", func(t *testing.T) {
		_, err := s.Get(ctx, id.NewClaimID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		err = s.Update(ctx, newClaim(t, candidateID))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		c := newClaim(t, candidateID)
		require.NoError(t, s.Create(ctx, c))
		assert.ErrorIs(t, s.Create(ctx, c), sentinel.ErrConflict)
	})

	t.Run("list by status", func(t *testing.T) {
		c := newClaim(t, candidateID)
		c.Status = models.StatusPending
		require.NoError(t, s.Create(ctx, c))

		pending, err := s.ListByStatus(ctx, models.StatusPending)
		require.NoError(t, err)
		require.NotEmpty(t, pending)
	})

	t.Run("rollback leaves claim untouched", func(t *testing.T) {
		c := newClaim(t, candidateID)
		require.NoError(t, s.Create(ctx, c))

		runner := tx.NewPoolRunner(pool)
		sawErr := runner.Run(ctx, c.ID.String(), func(ctx context.Context) error {
			locked, err := s.GetForUpdate(ctx, c.ID)
			require.NoError(t, err)
			locked.Status = models.StatusPending
			require.NoError(t, s.Update(ctx, locked))
			return context.Canceled
		})
		require.Error(t, sawErr)

		got, err := s.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, got.Status)
	})
}

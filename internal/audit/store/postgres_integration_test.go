//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/audit/models"
	"vouch/internal/audit/store"
	id "vouch/pkg/domain"
	"vouch/pkg/testutil/containers"
)

func TestPostgresAuditStore(t *testing.T) {
	s, err := store.OpenPostgres(containers.StartPostgresURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	actor := id.NewUserID()
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("round trip with typed actor id", func(t *testing.T) {
		event := models.NewEvent(models.ActionClaimSubmitted, "claim", "claim-1", base)
		event.ActorID = actor
		event.ActorRole = id.RoleCandidate
		event.RequestID = "req-1"
		event.Details = map[string]any{"outcome": "approved"}
		require.NoError(t, s.Record(ctx, event))

		got, err := s.List(ctx, store.Filter{EntityID: "claim-1"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, event.ID, got[0].ID)
		assert.Equal(t, actor, got[0].ActorID)
		assert.Equal(t, id.RoleCandidate, got[0].ActorRole)
		assert.Equal(t, "approved", got[0].Details["outcome"])
		assert.True(t, event.OccurredAt.Equal(got[0].OccurredAt))
	})

	t.Run("absent actor stays nil", func(t *testing.T) {
		event := models.NewEvent(models.ActionUserRegistered, "user", "user-1", base)
		require.NoError(t, s.Record(ctx, event))

		got, err := s.List(ctx, store.Filter{EntityID: "user-1"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].ActorID.IsNil())
	})

	t.Run("filters and ordering", func(t *testing.T) {
		for i, action := range []string{models.ActionDisputeOpened, models.ActionDisputeResolved} {
			event := models.NewEvent(action, "dispute", "dispute-1", base.Add(time.Duration(i)*time.Minute))
			event.ActorID = actor
			require.NoError(t, s.Record(ctx, event))
		}

		got, err := s.List(ctx, store.Filter{ActionPrefix: "dispute.", EntityType: "dispute"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, models.ActionDisputeResolved, got[0].Action)
		assert.Equal(t, models.ActionDisputeOpened, got[1].Action)

		limited, err := s.List(ctx, store.Filter{ActionPrefix: "dispute.", Limit: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, models.ActionDisputeResolved, limited[0].Action)
	})
}

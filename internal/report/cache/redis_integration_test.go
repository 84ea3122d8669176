//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/platform/config"
	"vouch/internal/platform/redis"
	"vouch/internal/report/cache"
	"vouch/internal/report/service"
	id "vouch/pkg/domain"
	"vouch/pkg/testutil/containers"
)

func TestRedisReportCache(t *testing.T) {
	url := containers.StartRedis(t)

	client, err := redis.New(config.RedisConfig{URL: url})
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewRedis(client, time.Minute)
	ctx := context.Background()

	score := 72.5
	report := &service.Report{
		ClaimID:          id.NewClaimID(),
		Title:            "Backend Engineer",
		ClaimType:        "employment",
		OrganizationName: "Acme",
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		SkillTags:        []string{"go"},
		CredibilityScore: score,
		GeneratedAt:      time.Now().UTC().Truncate(time.Second),
	}

	t.Run("miss returns nil without error", func(t *testing.T) {
		got, err := c.GetReport(ctx, id.NewClaimID())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get round trips", func(t *testing.T) {
		require.NoError(t, c.SetReport(ctx, report))

		got, err := c.GetReport(ctx, report.ClaimID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, report.ClaimID, got.ClaimID)
		assert.Equal(t, report.Title, got.Title)
		assert.InDelta(t, score, got.CredibilityScore, 0.001)
		assert.True(t, report.GeneratedAt.Equal(got.GeneratedAt))
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		require.NoError(t, c.SetReport(ctx, report))
		require.NoError(t, c.InvalidateReport(ctx, report.ClaimID))

		got, err := c.GetReport(ctx, report.ClaimID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

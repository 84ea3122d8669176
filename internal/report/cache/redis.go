// Package cache stores rendered public reports in Redis.
package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"vouch/internal/platform/redis"
	"vouch/internal/report/service"
	id "vouch/pkg/domain"
)

// Redis caches reports under report:<claim-id> with a fixed TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(claimID id.ClaimID) string {
	return "report:" + claimID.String()
}

// GetReport returns (nil, nil) on a cache miss.
func (c *Redis) GetReport(ctx context.Context, claimID id.ClaimID) (*service.Report, error) {
	data, err := c.client.Get(ctx, key(claimID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report service.Report
	if err := report.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Redis) SetReport(ctx context.Context, report *service.Report) error {
	return c.client.Set(ctx, key(report.ClaimID), report, c.ttl).Err()
}

func (c *Redis) InvalidateReport(ctx context.Context, claimID id.ClaimID) error {
	return c.client.Del(ctx, key(claimID)).Err()
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

const statsKey = "stats:overview"

// StatsCache keeps the last statistics overview for a short while.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache returns a cache whose entries live for ttl. A non-positive
// ttl disables caching.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached overview; ok is false on a cache miss.
func (c *StatsCache) Get(ctx context.Context) (*domain.StatisticsOverview, bool, error) {
	if c.ttl <= 0 {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stats cache get: %w", err)
	}

	var o domain.StatisticsOverview
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, false, fmt.Errorf("stats cache decode: %w", err)
	}
	return &o, true, nil
}

func (c *StatsCache) Set(ctx context.Context, o *domain.StatisticsOverview) error {
	if c.ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}

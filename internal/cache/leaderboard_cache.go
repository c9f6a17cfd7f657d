package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"pathfinder/internal/repository"
)

const leaderboardKey = "leaderboard:top"

// LeaderboardCache holds the aggregated top scorers for a short TTL. The
// leaderboard is the only public query that scans every roadmap row, so it
// is the one worth shielding from repeated hits.
type LeaderboardCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redisv9.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]repository.LeaderboardEntry, bool, error) {
	raw, err := c.client.Get(ctx, leaderboardKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get leaderboard failed: %w", err)
	}

	var entries []repository.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached leaderboard failed: %w", err)
	}
	return entries, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []repository.LeaderboardEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal leaderboard cache failed: %w", err)
	}
	if err := c.client.Set(ctx, leaderboardKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set leaderboard failed: %w", err)
	}
	return nil
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		return fmt.Errorf("redis delete leaderboard failed: %w", err)
	}
	return nil
}

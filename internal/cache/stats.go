package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
)

const statsKeyPrefix = "stats:school:"

// StatsCache keeps per-school dashboard counters in redis for a short TTL
// so the dashboards do not hit COUNT(*) on every refresh.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats and true on a hit. A nil cache, a redis
// fault, or a decode fault all read as a miss.
func (c *StatsCache) Get(ctx context.Context, schoolID string) (model.SchoolStats, bool) {
	if c == nil || c.client == nil {
		return model.SchoolStats{}, false
	}
	data, err := c.client.Get(ctx, statsKey(schoolID)).Bytes()
	if err != nil {
		return model.SchoolStats{}, false
	}
	var stats model.SchoolStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return model.SchoolStats{}, false
	}
	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats model.SchoolStats) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, statsKey(stats.SchoolID), data, c.ttl).Err()
}

// Invalidate drops the cached counters after a teacher or student write.
func (c *StatsCache) Invalidate(ctx context.Context, schoolID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, statsKey(schoolID)).Err()
}

func statsKey(schoolID string) string {
	return statsKeyPrefix + schoolID
}

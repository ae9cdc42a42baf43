package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
)

func TestNilCacheIsAMiss(t *testing.T) {
	var cache *StatsCache

	if _, ok := cache.Get(context.Background(), "school-1"); ok {
		t.Fatalf("nil cache must read as a miss")
	}
	// Writes against a nil cache are no-ops, not panics.
	cache.Set(context.Background(), model.SchoolStats{SchoolID: "school-1"})
	cache.Invalidate(context.Background(), "school-1")
}

func TestStatsRoundTrip(t *testing.T) {
	client := openTestRedis(t)
	if client == nil {
		return
	}
	defer client.Close()

	cache := NewStatsCache(client, time.Minute)
	ctx := context.Background()

	stats := model.SchoolStats{SchoolID: "school-1", TeacherCount: 3, StudentCount: 42}
	cache.Set(ctx, stats)

	got, ok := cache.Get(ctx, "school-1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got != stats {
		t.Fatalf("expected %+v, got %+v", stats, got)
	}

	cache.Invalidate(ctx, "school-1")
	if _, ok := cache.Get(ctx, "school-1"); ok {
		t.Fatalf("expected miss after invalidation")
	}
}

func openTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR or REDIS_ADDR not set")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
		return nil
	}
	return client
}

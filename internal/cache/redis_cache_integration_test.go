//go:build integration

package cache_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/cache"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

func getTestRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6380"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestRedisCache_ReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewRedisCache(getTestRedisClient(t), time.Minute)

	if _, err := c.ReadReport(ctx, "401520281"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss before write, got %v", err)
	}

	report := &models.GameReport{
		RunID:       "run-1",
		GameID:      "401520281",
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Analysis:    &models.GameAnalysis{Overview: "Michigan defeated Ohio State 30-24."},
		PlayerGrades: []models.PlayerGrade{
			{Name: "Smith", Team: "Michigan", OverallGrade: 88.5},
		},
	}
	if err := c.WriteReport(ctx, report); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	got, err := c.ReadReport(ctx, "401520281")
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if got.RunID != "run-1" || got.Analysis.Overview != report.Analysis.Overview {
		t.Errorf("report = %+v", got)
	}

	grades, err := c.ReadGrades(ctx, "401520281")
	if err != nil || len(grades) != 1 || grades[0].OverallGrade != 88.5 {
		t.Errorf("grades = %+v, err = %v", grades, err)
	}

	recent, err := c.RecentGames(ctx, 10)
	if err != nil || len(recent) != 1 || recent[0] != "401520281" {
		t.Errorf("recent = %v, err = %v", recent, err)
	}

	if err := c.Invalidate(ctx, "401520281"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, err := c.ReadGrades(ctx, "401520281"); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after invalidate, got %v", err)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no report is cached for a game
var ErrCacheMiss = errors.New("cache miss")

// TTL constants
const (
	DefaultReportTTL = 10 * time.Minute
	RecentListTTL    = 24 * time.Hour
	RecentListSize   = 100
)

// Key layout
const (
	reportKey = "cfb:game:%s:report"
	gradesKey = "cfb:game:%s:grades"
	recentKey = "cfb:analysis:recent"
)

// RedisCache stores generated reports in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache; a non-positive ttl uses DefaultReportTTL
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// WriteReport stores the full report, the grades on their own key for the grades
// endpoint, and pushes the game onto the recently analyzed list
func (c *RedisCache) WriteReport(ctx context.Context, report *models.GameReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	grades, err := json.Marshal(report.PlayerGrades)
	if err != nil {
		return fmt.Errorf("marshaling grades: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(reportKey, report.GameID), data, c.ttl)
	pipe.Set(ctx, fmt.Sprintf(gradesKey, report.GameID), grades, c.ttl)
	pipe.LRem(ctx, recentKey, 0, report.GameID)
	pipe.LPush(ctx, recentKey, report.GameID)
	pipe.LTrim(ctx, recentKey, 0, RecentListSize-1)
	pipe.Expire(ctx, recentKey, RecentListTTL)

	_, err = pipe.Exec(ctx)
	return err
}

// ReadReport retrieves a cached report
func (c *RedisCache) ReadReport(ctx context.Context, gameID string) (*models.GameReport, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(reportKey, gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var report models.GameReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshaling report: %w", err)
	}
	return &report, nil
}

// ReadGrades retrieves the cached player grades for a game
func (c *RedisCache) ReadGrades(ctx context.Context, gameID string) ([]models.PlayerGrade, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(gradesKey, gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var grades []models.PlayerGrade
	if err := json.Unmarshal(data, &grades); err != nil {
		return nil, fmt.Errorf("unmarshaling grades: %w", err)
	}
	return grades, nil
}

// Invalidate drops a game's cached report and grades
func (c *RedisCache) Invalidate(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, fmt.Sprintf(reportKey, gameID), fmt.Sprintf(gradesKey, gameID)).Err()
}

// RecentGames lists the most recently analyzed game IDs, newest first
func (c *RedisCache) RecentGames(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > RecentListSize {
		limit = RecentListSize
	}
	return c.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
}

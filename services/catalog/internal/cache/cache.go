package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// Default TTLs. Search pages expire quickly because ingestion does not
// invalidate them; single-course entries live longer.
const (
	DefaultSearchTTL = 5 * time.Minute
	DefaultCourseTTL = time.Hour
)

// Cache is a Redis-backed read-through cache for search pages and course
// lookups. All operations are best-effort: a Redis failure is logged and
// reported as a miss (or ignored on write) so the caller falls through to the
// authoritative store.
type Cache struct {
	client    *redis.Client
	searchTTL time.Duration
	courseTTL time.Duration
	logger    *slog.Logger
}

// New creates a cache with the given TTLs. Zero TTLs fall back to the defaults.
func New(client *redis.Client, searchTTL, courseTTL time.Duration, logger *slog.Logger) *Cache {
	if searchTTL <= 0 {
		searchTTL = DefaultSearchTTL
	}
	if courseTTL <= 0 {
		courseTTL = DefaultCourseTTL
	}
	return &Cache{
		client:    client,
		searchTTL: searchTTL,
		courseTTL: courseTTL,
		logger:    logger,
	}
}

// GetSearchPage retrieves a cached search page. The second return value is
// false on a miss or any Redis/decoding failure.
func (c *Cache) GetSearchPage(ctx context.Context, key string) (*domain.SearchPage, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache read failed, falling through",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var page domain.SearchPage
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt, falling through",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return &page, true
}

// SetSearchPage stores a search page under the given key with the search TTL.
// Write failures are logged and swallowed.
func (c *Cache) SetSearchPage(ctx context.Context, key string, page *domain.SearchPage) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, key, data, c.searchTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// GetCourse retrieves a cached course by its cache key.
func (c *Cache) GetCourse(ctx context.Context, key string) (*domain.Course, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache read failed, falling through",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt, falling through",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return &course, true
}

// SetCourse stores a course under the given key with the course TTL.
func (c *Cache) SetCourse(ctx context.Context, key string, course *domain.Course) {
	data, err := json.Marshal(course)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, key, data, c.courseTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Ping checks Redis connectivity for readiness probes.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

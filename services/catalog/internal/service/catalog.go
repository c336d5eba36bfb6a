package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/ysam020/assessment/pkg/errors"
	"github.com/ysam020/assessment/services/catalog/internal/cache"
	"github.com/ysam020/assessment/services/catalog/internal/domain"
	"github.com/ysam020/assessment/services/catalog/internal/engine"
	"github.com/ysam020/assessment/services/catalog/internal/repository"
)

// EventPublisher publishes course lifecycle events for downstream consumers.
// A nil publisher disables event publishing.
type EventPublisher interface {
	PublishCourseUpserted(ctx context.Context, course *domain.Course) error
}

// CatalogService implements the course search, lookup, and ingestion flows.
// The store is authoritative; the search index serves queries and the cache
// is a best-effort read-through layer in front of both.
type CatalogService struct {
	repo   repository.CourseRepository
	engine engine.SearchEngine
	cache  *cache.Cache
	events EventPublisher
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service. events may be nil.
func NewCatalogService(
	repo repository.CourseRepository,
	eng engine.SearchEngine,
	c *cache.Cache,
	events EventPublisher,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:   repo,
		engine: eng,
		cache:  c,
		events: events,
		logger: logger,
	}
}

// Search executes a course search. The query is normalized, checked against
// the cache, and on a miss resolved by the search engine; the resulting page
// is cached before returning. Cached and fresh responses are identical except
// for the FromCache flag.
func (s *CatalogService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	query.Normalize()
	key := cache.SearchKey(query)

	if page, ok := s.cache.GetSearchPage(ctx, key); ok {
		s.logger.DebugContext(ctx, "search cache hit", slog.String("key", key))
		return searchResult(page, query, true), nil
	}

	page, err := s.engine.Search(ctx, &query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.cache.SetSearchPage(ctx, key, page)

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", query.Query),
		slog.Int("total", page.TotalCount),
		slog.Int64("took_ms", page.TookMs),
	)

	return searchResult(page, query, false), nil
}

func searchResult(page *domain.SearchPage, query domain.SearchQuery, fromCache bool) *domain.SearchResult {
	courses := page.Courses
	if courses == nil {
		courses = []domain.Course{}
	}
	return &domain.SearchResult{
		Courses:    courses,
		TotalCount: page.TotalCount,
		Limit:      query.Limit,
		Offset:     query.Offset,
		FromCache:  fromCache,
	}
}

// GetByCode retrieves a single course by its course code, cache first. A
// course that does not exist is a null result, not an error.
func (s *CatalogService) GetByCode(ctx context.Context, courseCode string) (*domain.CourseResult, error) {
	courseCode = strings.TrimSpace(courseCode)
	if courseCode == "" {
		return nil, apperrors.InvalidInput("course code is required")
	}

	key := cache.CourseKey(courseCode)

	if course, ok := s.cache.GetCourse(ctx, key); ok {
		s.logger.DebugContext(ctx, "course cache hit", slog.String("course_code", courseCode))
		return &domain.CourseResult{Course: course, FromCache: true}, nil
	}

	course, err := s.repo.GetByCode(ctx, courseCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.CourseResult{Course: nil, FromCache: false}, nil
		}
		return nil, fmt.Errorf("get course %s: %w", courseCode, err)
	}

	s.cache.SetCourse(ctx, key, course)

	return &domain.CourseResult{Course: course, FromCache: false}, nil
}

// UpsertBatch validates and stores a batch of course records, then indexes
// the stored courses in a single bulk call. Invalid records are skipped;
// Uploaded counts store successes and Indexed counts index acceptances, so
// Indexed may be lower than Uploaded. Existing cached search pages are NOT
// invalidated; the search TTL bounds their staleness.
func (s *CatalogService) UpsertBatch(ctx context.Context, records []domain.UpsertRecord) (*domain.UpsertSummary, error) {
	if len(records) == 0 {
		return nil, apperrors.InvalidInput("at least one course record is required")
	}

	uploaded := make([]domain.Course, 0, len(records))

	for i := range records {
		if err := records[i].Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping invalid course record",
				slog.Int("position", i),
				slog.String("course_code", records[i].CourseCode),
				slog.String("error", err.Error()),
			)
			continue
		}

		course := records[i].ToCourse()
		if err := s.repo.Upsert(ctx, &course); err != nil {
			s.logger.ErrorContext(ctx, "course upsert failed",
				slog.String("course_code", course.CourseCode),
				slog.String("error", err.Error()),
			)
			continue
		}

		uploaded = append(uploaded, course)
		s.publishUpserted(ctx, &course)
	}

	// One bulk index call covering exactly the store successes.
	indexed := 0
	if len(uploaded) > 0 {
		var err error
		indexed, err = s.engine.BulkIndex(ctx, uploaded)
		if err != nil {
			s.logger.ErrorContext(ctx, "bulk index failed; courses stored but not searchable",
				slog.Int("uploaded", len(uploaded)),
				slog.String("error", err.Error()),
			)
			indexed = 0
		}
	}

	s.logger.InfoContext(ctx, "course batch processed",
		slog.Int("received", len(records)),
		slog.Int("uploaded", len(uploaded)),
		slog.Int("indexed", indexed),
	)

	return &domain.UpsertSummary{
		Uploaded: len(uploaded),
		Indexed:  indexed,
	}, nil
}

// publishUpserted emits a course.upserted event. Publish failures are logged
// and never propagate to the caller.
func (s *CatalogService) publishUpserted(ctx context.Context, course *domain.Course) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCourseUpserted(ctx, course); err != nil {
		s.logger.WarnContext(ctx, "failed to publish course.upserted event",
			slog.String("course_code", course.CourseCode),
			slog.String("error", err.Error()),
		)
	}
}

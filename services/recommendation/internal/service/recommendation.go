package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	apperrors "github.com/ysam020/assessment/pkg/errors"
	"github.com/ysam020/assessment/services/recommendation/internal/domain"
)

const (
	defaultLimit = 5
	maxLimit     = 20

	// perTopicFetch is how many courses we pull from the catalog per topic
	// before merging and scoring across topics.
	perTopicFetch = 10
)

// CatalogSearcher queries the catalog service for courses matching a topic.
type CatalogSearcher interface {
	Search(ctx context.Context, topic, skillLevel string, limit int) ([]domain.Course, error)
}

// RecommendationService builds course recommendations from live catalog
// results, falling back to a static table when the catalog is unavailable.
type RecommendationService struct {
	catalog CatalogSearcher
	logger  *slog.Logger
}

func NewRecommendationService(catalog CatalogSearcher, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		catalog: catalog,
		logger:  logger,
	}
}

// RecommendInput carries a recommendation request after transport decoding.
type RecommendInput struct {
	Topics            []string
	SkillLevel        string
	PreferredDuration string
	Limit             int
}

// Recommend validates the input, scores catalog courses against the requested
// topics, and returns up to Limit recommendations ordered by relevance.
func (s *RecommendationService) Recommend(ctx context.Context, input RecommendInput) (*domain.Result, error) {
	topics := normalizeTopics(input.Topics)
	if len(topics) == 0 {
		return nil, apperrors.InvalidInput("at least one topic is required")
	}

	skillLevel := strings.ToLower(strings.TrimSpace(input.SkillLevel))
	if skillLevel == "" {
		return nil, apperrors.InvalidInput("skill_level is required")
	}
	if !domain.ValidSkillLevel(skillLevel) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("skill_level must be one of: %s, %s, %s",
			domain.SkillBeginner, domain.SkillIntermediate, domain.SkillAdvanced))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	recs, err := s.fromCatalog(ctx, topics, skillLevel, input.PreferredDuration, limit)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog lookup failed, serving fallback recommendations",
			slog.String("error", err.Error()))
	}
	if err == nil && len(recs) > 0 {
		return &domain.Result{
			Recommendations: recs,
			TotalCount:      len(recs),
			Source:          domain.SourceCatalog,
		}, nil
	}

	fallback := fallbackRecommendations(topics, skillLevel, limit)
	return &domain.Result{
		Recommendations: fallback,
		TotalCount:      len(fallback),
		Source:          domain.SourceFallback,
	}, nil
}

// fromCatalog searches the catalog once per topic, merges the results by
// course code, and scores each course by the fraction of requested topics it
// matched.
func (s *RecommendationService) fromCatalog(ctx context.Context, topics []string, skillLevel, preferredDuration string, limit int) ([]domain.Recommendation, error) {
	type scored struct {
		course  domain.Course
		matched []string
	}
	merged := make(map[string]*scored)
	order := make([]string, 0, len(topics)*perTopicFetch)

	var lastErr error
	for _, topic := range topics {
		courses, err := s.catalog.Search(ctx, topic, skillLevel, perTopicFetch)
		if err != nil {
			lastErr = err
			continue
		}
		for _, course := range courses {
			entry, ok := merged[course.CourseCode]
			if !ok {
				entry = &scored{course: course}
				merged[course.CourseCode] = entry
				order = append(order, course.CourseCode)
			}
			entry.matched = append(entry.matched, topic)
		}
	}

	if len(merged) == 0 {
		return nil, lastErr
	}

	recs := make([]domain.Recommendation, 0, len(merged))
	for _, code := range order {
		entry := merged[code]
		score := float64(len(entry.matched)) / float64(len(topics))
		if preferredDuration != "" && strings.EqualFold(entry.course.Duration, preferredDuration) {
			score += 0.1
		}
		if score > 1.0 {
			score = 1.0
		}
		recs = append(recs, domain.Recommendation{
			Title:          entry.course.Title,
			Description:    entry.course.Description,
			Category:       entry.course.Category,
			SkillLevel:     entry.course.SkillLevel,
			Duration:       entry.course.Duration,
			Instructor:     entry.course.Instructor,
			RelevanceScore: score,
			Topics:         entry.matched,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// Relevance weights for the in-memory scorer, mirroring the field boosts of
// the Elasticsearch multi_match query.
const (
	titleWeight       = 3.0
	descriptionWeight = 2.0
	instructorWeight  = 1.0
	tagWeight         = 1.0
)

// Engine is an in-memory implementation of the SearchEngine interface.
// It provides substring matching with title-weighted relevance scoring and is
// used in tests and local development. Thread-safe via sync.RWMutex.
type Engine struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		courses: make(map[string]domain.Course),
	}
}

// Index adds or updates a single course, keyed by course code.
func (e *Engine) Index(_ context.Context, course *domain.Course) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.courses[course.CourseCode] = *course
	return nil
}

// Delete removes a course from the index by its course code.
func (e *Engine) Delete(_ context.Context, courseCode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.courses, courseCode)
	return nil
}

// Search executes a normalized search query against the in-memory index.
// Results are ordered by descending relevance with an ascending title
// tie-break, matching the Elasticsearch sort.
func (e *Engine) Search(_ context.Context, query *domain.SearchQuery) (*domain.SearchPage, error) {
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make([]domain.Course, 0)

	for _, c := range e.courses {
		if !matchesFilters(c, query) {
			continue
		}

		score := relevance(c, query.Query)
		if query.Query != "" && score == 0 {
			continue
		}
		c.RelevanceScore = score
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].RelevanceScore != matched[j].RelevanceScore {
			return matched[i].RelevanceScore > matched[j].RelevanceScore
		}
		return matched[i].Title < matched[j].Title
	})

	total := len(matched)

	offset := query.Offset
	if offset > total {
		offset = total
	}
	end := offset + query.Limit
	if end > total {
		end = total
	}

	return &domain.SearchPage{
		Courses:    matched[offset:end],
		TotalCount: total,
		TookMs:     time.Since(start).Milliseconds(),
	}, nil
}

// BulkIndex adds or updates multiple courses. The in-memory index accepts
// every document, so the returned count always equals the input length.
func (e *Engine) BulkIndex(_ context.Context, courses []domain.Course) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range courses {
		e.courses[courses[i].CourseCode] = courses[i]
	}
	return len(courses), nil
}

// matchesFilters applies the conjunctive category, skill level, and instructor
// filters. Filter values arrive lowercased from query normalization.
func matchesFilters(c domain.Course, query *domain.SearchQuery) bool {
	if query.Category != "" && strings.ToLower(c.Category) != query.Category {
		return false
	}
	if query.SkillLevel != "" && strings.ToLower(c.SkillLevel) != query.SkillLevel {
		return false
	}
	if query.Instructor != "" && strings.ToLower(c.Instructor) != query.Instructor {
		return false
	}
	return true
}

// relevance computes a weighted substring score for the query over the
// course's text fields. An empty query matches everything with zero score.
func relevance(c domain.Course, query string) float64 {
	if query == "" {
		return 0
	}

	var score float64
	if strings.Contains(strings.ToLower(c.Title), query) {
		score += titleWeight
	}
	if strings.Contains(strings.ToLower(c.Description), query) {
		score += descriptionWeight
	}
	if strings.Contains(strings.ToLower(c.Instructor), query) {
		score += instructorWeight
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			score += tagWeight
			break
		}
	}
	return score
}

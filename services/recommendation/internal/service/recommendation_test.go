package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ysam020/assessment/pkg/errors"
	"github.com/ysam020/assessment/services/recommendation/internal/domain"
)

// ---------------------------------------------------------------------------
// test helpers
// ---------------------------------------------------------------------------

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeCatalog returns canned results keyed by topic and records the topics it
// was queried with.
type fakeCatalog struct {
	byTopic map[string][]domain.Course
	err     error
	queried []string
}

func (f *fakeCatalog) Search(_ context.Context, topic, _ string, _ int) ([]domain.Course, error) {
	f.queried = append(f.queried, topic)
	if f.err != nil {
		return nil, f.err
	}
	return f.byTopic[topic], nil
}

func course(code, title, skillLevel, duration string) domain.Course {
	return domain.Course{
		CourseCode: code,
		Title:      title,
		Category:   "Web Development",
		Instructor: "Prof. Test",
		Duration:   duration,
		SkillLevel: skillLevel,
	}
}

// ---------------------------------------------------------------------------
// validation
// ---------------------------------------------------------------------------

func TestRecommend_NoTopics(t *testing.T) {
	svc := NewRecommendationService(&fakeCatalog{}, newTestLogger())

	_, err := svc.Recommend(t.Context(), RecommendInput{SkillLevel: "beginner"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRecommend_BlankTopicsOnly(t *testing.T) {
	svc := NewRecommendationService(&fakeCatalog{}, newTestLogger())

	_, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"  ", ""},
		SkillLevel: "beginner",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRecommend_MissingSkillLevel(t *testing.T) {
	svc := NewRecommendationService(&fakeCatalog{}, newTestLogger())

	_, err := svc.Recommend(t.Context(), RecommendInput{Topics: []string{"mongodb"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRecommend_InvalidSkillLevel(t *testing.T) {
	svc := NewRecommendationService(&fakeCatalog{}, newTestLogger())

	_, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"mongodb"},
		SkillLevel: "wizard",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "beginner")
}

func TestRecommend_SkillLevelCaseInsensitive(t *testing.T) {
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{
		"mongodb": {course("CS101", "Intro to MongoDB", "beginner", "8 weeks")},
	}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"mongodb"},
		SkillLevel: "  Beginner ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCatalog, result.Source)
}

// ---------------------------------------------------------------------------
// catalog-backed recommendations
// ---------------------------------------------------------------------------

func TestRecommend_CatalogResults(t *testing.T) {
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{
		"mongodb": {
			course("CS101", "Intro to MongoDB", "beginner", "8 weeks"),
			course("CS201", "MERN Stack", "intermediate", "10 weeks"),
		},
		"react": {
			course("CS201", "MERN Stack", "intermediate", "10 weeks"),
			course("CS301", "React Patterns", "advanced", "6 weeks"),
		},
	}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"mongodb", "react"},
		SkillLevel: "intermediate",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceCatalog, result.Source)
	assert.Equal(t, []string{"mongodb", "react"}, catalog.queried)
	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, result.TotalCount, len(result.Recommendations))

	// CS201 matched both topics so it must rank first with a full score.
	top := result.Recommendations[0]
	assert.Equal(t, "MERN Stack", top.Title)
	assert.InDelta(t, 1.0, top.RelevanceScore, 0.001)
	assert.ElementsMatch(t, []string{"mongodb", "react"}, top.Topics)

	// Single-topic matches score half.
	for _, rec := range result.Recommendations[1:] {
		assert.InDelta(t, 0.5, rec.RelevanceScore, 0.001)
		assert.Len(t, rec.Topics, 1)
	}
}

func TestRecommend_PreferredDurationBoost(t *testing.T) {
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{
		"mongodb": {
			course("CS101", "Intro to MongoDB", "beginner", "8 weeks"),
			course("CS102", "MongoDB Modeling", "beginner", "6 weeks"),
		},
	}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:            []string{"mongodb"},
		SkillLevel:        "beginner",
		PreferredDuration: "6 weeks",
	})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "MongoDB Modeling", result.Recommendations[0].Title)
	assert.Greater(t, result.Recommendations[0].RelevanceScore, result.Recommendations[1].RelevanceScore)
}

func TestRecommend_ScoreCappedAtOne(t *testing.T) {
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{
		"mongodb": {course("CS101", "Intro to MongoDB", "beginner", "8 weeks")},
	}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:            []string{"mongodb"},
		SkillLevel:        "beginner",
		PreferredDuration: "8 weeks",
	})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	assert.InDelta(t, 1.0, result.Recommendations[0].RelevanceScore, 0.001)
}

func TestRecommend_LimitApplied(t *testing.T) {
	courses := make([]domain.Course, 0, 8)
	for _, code := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8"} {
		courses = append(courses, course(code, "Course "+code, "beginner", "8 weeks"))
	}
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{"go": courses}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"go"},
		SkillLevel: "beginner",
		Limit:      3,
	})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 3)
	assert.Equal(t, 3, result.TotalCount)
}

func TestRecommend_DefaultLimit(t *testing.T) {
	courses := make([]domain.Course, 0, 8)
	for _, code := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8"} {
		courses = append(courses, course(code, "Course "+code, "beginner", "8 weeks"))
	}
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{"go": courses}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"go"},
		SkillLevel: "beginner",
	})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, defaultLimit)
}

// ---------------------------------------------------------------------------
// fallback behavior
// ---------------------------------------------------------------------------

func TestRecommend_FallbackOnCatalogError(t *testing.T) {
	catalog := &fakeCatalog{err: apperrors.ServiceUnavailable("catalog is down")}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"mongodb"},
		SkillLevel: "beginner",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFallback, result.Source)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, result.TotalCount, len(result.Recommendations))
	assert.LessOrEqual(t, len(result.Recommendations), defaultLimit)
}

func TestRecommend_FallbackOnEmptyCatalog(t *testing.T) {
	catalog := &fakeCatalog{byTopic: map[string][]domain.Course{}}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"underwater basket weaving"},
		SkillLevel: "beginner",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, result.Source)
	assert.NotEmpty(t, result.Recommendations)
}

func TestRecommend_FallbackSortedByRelevance(t *testing.T) {
	catalog := &fakeCatalog{err: apperrors.ServiceUnavailable("catalog is down")}
	svc := NewRecommendationService(catalog, newTestLogger())

	result, err := svc.Recommend(t.Context(), RecommendInput{
		Topics:     []string{"mongodb"},
		SkillLevel: "intermediate",
	})
	require.NoError(t, err)

	recs := result.Recommendations
	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].RelevanceScore, recs[i].RelevanceScore)
	}
}

// ---------------------------------------------------------------------------
// static fallback table
// ---------------------------------------------------------------------------

func TestFallbackRecommendations_TopicMatch(t *testing.T) {
	recs := fallbackRecommendations([]string{"mongodb"}, "advanced", 3)

	require.Len(t, recs, 3)
	// Highest-scored MongoDB course leads.
	assert.Equal(t, "Complete MongoDB Development Bootcamp", recs[0].Title)
}

func TestFallbackRecommendations_SubstringMatchBothDirections(t *testing.T) {
	// "mongo" is contained in the course topic "MongoDB".
	byPrefix := fallbackRecommendations([]string{"mongo"}, "advanced", 10)
	assert.NotEmpty(t, byPrefix)

	// The course topic "React" is contained in the request "react hooks".
	byLonger := fallbackRecommendations([]string{"react hooks"}, "advanced", 10)
	found := false
	for _, r := range byLonger {
		for _, topic := range r.Topics {
			if topic == "React" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a React course to match topic %q", "react hooks")
}

func TestFallbackRecommendations_SkillLevelMatchAlone(t *testing.T) {
	// No topic overlap, but advanced courses still match on skill level.
	recs := fallbackRecommendations([]string{"quantum computing"}, "advanced", 10)

	require.NotEmpty(t, recs)
	assert.Equal(t, domain.SkillAdvanced, recs[0].SkillLevel)
}

func TestFallbackRecommendations_PadsToLimit(t *testing.T) {
	// Only one course mentions Python, so padding fills the rest.
	recs := fallbackRecommendations([]string{"python"}, "advanced", 5)

	assert.Len(t, recs, 5)
	titles := make(map[string]bool, len(recs))
	for _, r := range recs {
		assert.False(t, titles[r.Title], "duplicate title %q", r.Title)
		titles[r.Title] = true
	}
}

func TestFallbackRecommendations_RespectsLimit(t *testing.T) {
	recs := fallbackRecommendations([]string{"mongodb"}, "beginner", 2)
	assert.Len(t, recs, 2)
}

package cache

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(client, 5*time.Minute, time.Hour, logger)
	return c, mr
}

func sampleCourse() *domain.Course {
	return &domain.Course{
		ID:          "b3a1f60e-1111-4f5a-9a60-000000000001",
		CourseCode:  "CS101",
		Title:       "Introduction to Computer Science",
		Description: "Fundamentals of programming and computation",
		Category:    "Computer Science",
		Instructor:  "Dr. Adams",
		Duration:    "12 weeks",
		SkillLevel:  "beginner",
		Tags:        []string{"programming"},
		Active:      true,
	}
}

func samplePage() *domain.SearchPage {
	return &domain.SearchPage{
		Courses:    []domain.Course{*sampleCourse()},
		TotalCount: 1,
		TookMs:     3,
	}
}

// ---------------------------------------------------------------------------
// Search page entries
// ---------------------------------------------------------------------------

func TestCache_SearchPage_RoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)

	q := domain.SearchQuery{Query: "python", Limit: 10}
	q.Normalize()
	key := SearchKey(q)

	_, ok := c.GetSearchPage(t.Context(), key)
	assert.False(t, ok, "empty cache should miss")

	page := samplePage()
	c.SetSearchPage(t.Context(), key, page)

	got, ok := c.GetSearchPage(t.Context(), key)
	require.True(t, ok)
	assert.Equal(t, page.TotalCount, got.TotalCount)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "CS101", got.Courses[0].CourseCode)
}

func TestCache_SearchPage_TTL(t *testing.T) {
	c, mr := setupTestCache(t)

	q := domain.SearchQuery{Query: "python", Limit: 10}
	q.Normalize()
	key := SearchKey(q)
	c.SetSearchPage(t.Context(), key, samplePage())

	// Entry should expire after the search TTL.
	mr.FastForward(5*time.Minute + time.Second)
	_, ok := c.GetSearchPage(t.Context(), key)
	assert.False(t, ok)
}

func TestCache_SearchPage_CorruptEntry(t *testing.T) {
	c, mr := setupTestCache(t)

	key := SearchKey(domain.SearchQuery{Query: "x", Limit: 10})
	require.NoError(t, mr.Set(key, "not json"))

	_, ok := c.GetSearchPage(t.Context(), key)
	assert.False(t, ok, "corrupt entries should be treated as misses")
}

func TestCache_SearchPage_RedisDown(t *testing.T) {
	c, mr := setupTestCache(t)
	mr.Close()

	key := SearchKey(domain.SearchQuery{Query: "x", Limit: 10})

	// Reads degrade to a miss, writes are swallowed.
	_, ok := c.GetSearchPage(t.Context(), key)
	assert.False(t, ok)
	c.SetSearchPage(t.Context(), key, samplePage())
}

// ---------------------------------------------------------------------------
// Course entries
// ---------------------------------------------------------------------------

func TestCache_Course_RoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)

	key := CourseKey("CS101")
	_, ok := c.GetCourse(t.Context(), key)
	assert.False(t, ok)

	course := sampleCourse()
	c.SetCourse(t.Context(), key, course)

	got, ok := c.GetCourse(t.Context(), key)
	require.True(t, ok)
	assert.Equal(t, course.CourseCode, got.CourseCode)
	assert.Equal(t, course.Title, got.Title)
}

func TestCache_Course_TTL(t *testing.T) {
	c, mr := setupTestCache(t)

	key := CourseKey("CS101")
	c.SetCourse(t.Context(), key, sampleCourse())

	// Course entries outlive search pages.
	mr.FastForward(30 * time.Minute)
	_, ok := c.GetCourse(t.Context(), key)
	assert.True(t, ok, "course entry should still be cached after 30m")

	mr.FastForward(31 * time.Minute)
	_, ok = c.GetCourse(t.Context(), key)
	assert.False(t, ok, "course entry should expire after 1h")
}

func TestCache_Course_StoredAsJSON(t *testing.T) {
	c, mr := setupTestCache(t)

	key := CourseKey("CS101")
	c.SetCourse(t.Context(), key, sampleCourse())

	raw, err := mr.Get(key)
	require.NoError(t, err)

	var decoded domain.Course
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "CS101", decoded.CourseCode)
}

// ---------------------------------------------------------------------------
// Key derivation
// ---------------------------------------------------------------------------

func TestSearchKey_Deterministic(t *testing.T) {
	q1 := domain.SearchQuery{Query: "Machine Learning", Category: "Data Science", Limit: 10}
	q2 := domain.SearchQuery{Query: "  machine learning ", Category: "DATA SCIENCE", Limit: 10}
	q1.Normalize()
	q2.Normalize()

	assert.Equal(t, SearchKey(q1), SearchKey(q2),
		"equivalent queries must derive the same key")
}

func TestSearchKey_DefaultsCollapse(t *testing.T) {
	// Explicit defaults and omitted parameters are the same query.
	q1 := domain.SearchQuery{Query: "python"}
	q2 := domain.SearchQuery{Query: "python", Limit: 10, Offset: 0}
	q1.Normalize()
	q2.Normalize()

	assert.Equal(t, SearchKey(q1), SearchKey(q2))
}

func TestSearchKey_DistinctQueries(t *testing.T) {
	base := domain.SearchQuery{Query: "python", Limit: 10}
	base.Normalize()

	variants := []domain.SearchQuery{
		{Query: "java", Limit: 10},
		{Query: "python", Category: "programming", Limit: 10},
		{Query: "python", Instructor: "dr. adams", Limit: 10},
		{Query: "python", SkillLevel: "advanced", Limit: 10},
		{Query: "python", Limit: 20},
		{Query: "python", Limit: 10, Offset: 10},
	}

	seen := map[string]bool{SearchKey(base): true}
	for _, v := range variants {
		v.Normalize()
		key := SearchKey(v)
		assert.False(t, seen[key], "query %+v should have a distinct key", v)
		seen[key] = true
	}
}

func TestSearchKey_Format(t *testing.T) {
	q := domain.SearchQuery{Query: "python", Limit: 10}
	q.Normalize()
	key := SearchKey(q)

	assert.True(t, strings.HasPrefix(key, "search:"))
	// SHA-256 hex digest is 64 characters.
	assert.Len(t, strings.TrimPrefix(key, "search:"), 64)
}

func TestCourseKey_Format(t *testing.T) {
	assert.Equal(t, "course:CS101", CourseKey("CS101"))
	assert.Equal(t, "course:CS101", CourseKey("  CS101 "))
}

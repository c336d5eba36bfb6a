package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ysam020/assessment/pkg/errors"
)

// ---------------------------------------------------------------------------
// test helpers
// ---------------------------------------------------------------------------

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// plainDoer executes requests with the default HTTP client, satisfying
// HTTPDoer without retry or breaker machinery.
type plainDoer struct{}

func (plainDoer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req.WithContext(ctx))
}

const searchBody = `{
	"data": {
		"courses": [
			{
				"course_code": "CS101",
				"title": "Intro to Databases",
				"description": "Relational and document stores.",
				"category": "Database",
				"instructor": "Prof. Test",
				"duration": "8 weeks",
				"skill_level": "beginner",
				"tags": ["databases", "sql"]
			},
			{
				"course_code": "CS201",
				"title": "Advanced Databases",
				"category": "Database",
				"skill_level": "advanced"
			}
		],
		"total_count": 2
	}
}`

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestSearch_Success(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := NewClient(plainDoer{}, server.URL, newTestLogger())

	courses, err := client.Search(t.Context(), "databases", "beginner", 10)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/courses/search", gotPath)
	assert.Contains(t, gotQuery, "query=databases")
	assert.Contains(t, gotQuery, "skill_level=beginner")
	assert.Contains(t, gotQuery, "limit=10")

	require.Len(t, courses, 2)
	assert.Equal(t, "CS101", courses[0].CourseCode)
	assert.Equal(t, "Intro to Databases", courses[0].Title)
	assert.Equal(t, "beginner", courses[0].SkillLevel)
	assert.Equal(t, "CS201", courses[1].CourseCode)
}

func TestSearch_OmitsEmptySkillLevel(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"courses":[],"total_count":0}}`))
	}))
	defer server.Close()

	client := NewClient(plainDoer{}, server.URL, newTestLogger())

	_, err := client.Search(t.Context(), "databases", "", 5)
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "skill_level")
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":"SERVICE_UNAVAILABLE","message":"search index offline"}}`))
	}))
	defer server.Close()

	client := NewClient(plainDoer{}, server.URL, newTestLogger())

	_, err := client.Search(t.Context(), "databases", "beginner", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestSearch_UnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(plainDoer{}, server.URL, newTestLogger())

	_, err := client.Search(t.Context(), "databases", "beginner", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call catalog service")
}

func TestSearch_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(plainDoer{}, server.URL, newTestLogger())

	_, err := client.Search(t.Context(), "databases", "beginner", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode search response")
}

func TestCircuitOpenFallback(t *testing.T) {
	resp, err := CircuitOpenFallback(t.Context(), assert.AnError)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

package integration

import (
	"fmt"
	"testing"
	"time"
)

// TestCatalogUploadAndSearch ingests a small CSV and verifies the courses
// become searchable.
func TestCatalogUploadAndSearch(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	code := uniqueCourseCode("INT")
	csvContent := fmt.Sprintf(
		"course_id,title,description,category,instructor,duration,skill_level,tags\n"+
			"%s,Integration Testing in Go,End-to-end testing strategies for distributed systems,Software Engineering,Prof. Grace Ito,6 weeks,intermediate,\"testing,go\"\n",
		code,
	)

	status, data := uploadCSV(t, baseURL(catalogPort)+"/api/v1/courses/upload", csvContent, "")
	requireStatus(t, status, 200)

	uploaded := extractFloat(t, data, "data.courses_uploaded")
	if uploaded < 1 {
		t.Fatalf("expected at least 1 uploaded course, got %v", uploaded)
	}

	// The search index is written synchronously with the upload, but give a
	// moment of slack for index refresh.
	time.Sleep(time.Second)

	status, data = httpGet(t, baseURL(catalogPort)+"/api/v1/courses/search?query=Integration+Testing")
	requireStatus(t, status, 200)

	courses, ok := extractField(data, "data.courses").([]interface{})
	if !ok || len(courses) == 0 {
		t.Fatalf("expected search results for uploaded course, got %v", data)
	}
}

// TestCatalogGetByCode verifies lookup by course code after a batch upsert.
func TestCatalogGetByCode(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	code := uniqueCourseCode("GET")
	status, _ := httpPost(t, baseURL(catalogPort)+"/api/v1/courses/batch", map[string]interface{}{
		"courses": []map[string]interface{}{
			{
				"course_code": code,
				"title":       "Distributed Systems Fundamentals",
				"description": "Consensus, replication, and failure handling",
				"category":    "Software Engineering",
				"instructor":  "Dr. Raj Patel",
				"duration":    "10 weeks",
				"skill_level": "advanced",
				"tags":        []string{"distributed", "systems"},
			},
		},
	})
	requireStatus(t, status, 200)

	status, data := httpGet(t, baseURL(catalogPort)+"/api/v1/courses/"+code)
	requireStatus(t, status, 200)

	title := extractString(t, data, "data.course.title")
	if title != "Distributed Systems Fundamentals" {
		t.Fatalf("expected course title to round-trip, got %q", title)
	}
}

// TestCatalogGetUnknownCode verifies that an unknown course code returns a
// 200 with a null course rather than a 404.
func TestCatalogGetUnknownCode(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	status, data := httpGet(t, baseURL(catalogPort)+"/api/v1/courses/"+uniqueCourseCode("NONE"))
	requireStatus(t, status, 200)

	if course := extractField(data, "data.course"); course != nil {
		t.Fatalf("expected null course for unknown code, got %v", course)
	}
}

// TestCatalogSearchCached verifies that repeating a search is served from
// cache.
func TestCatalogSearchCached(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	url := baseURL(catalogPort) + "/api/v1/courses/search?query=" + uniqueCourseCode("cache")

	status, _ := httpGet(t, url)
	requireStatus(t, status, 200)

	status, data := httpGet(t, url)
	requireStatus(t, status, 200)

	fromCache, ok := extractField(data, "data.from_cache").(bool)
	if !ok || !fromCache {
		t.Fatalf("expected repeated search to be served from cache, got %v", data)
	}
}

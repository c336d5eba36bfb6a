package integration

import (
	"testing"
)

// TestRecommendationBasic requests recommendations and verifies the response
// shape. The source field may be "catalog" or "fallback" depending on whether
// the catalog holds matching courses.
func TestRecommendationBasic(t *testing.T) {
	skipIfNotRunning(t, recommendationPort)

	status, data := httpPost(t, baseURL(recommendationPort)+"/api/v1/recommendations", map[string]interface{}{
		"topics":      []string{"mongodb", "databases"},
		"skill_level": "beginner",
	})
	requireStatus(t, status, 200)

	recs, ok := extractField(data, "data.recommendations").([]interface{})
	if !ok || len(recs) == 0 {
		t.Fatalf("expected non-empty recommendations, got %v", data)
	}

	source := extractString(t, data, "data.source")
	if source != "catalog" && source != "fallback" {
		t.Fatalf("unexpected recommendation source %q", source)
	}

	count := extractFloat(t, data, "data.total_count")
	if int(count) != len(recs) {
		t.Fatalf("total_count %v does not match %d recommendations", count, len(recs))
	}
}

// TestRecommendationLimit verifies the limit parameter caps the result size.
func TestRecommendationLimit(t *testing.T) {
	skipIfNotRunning(t, recommendationPort)

	status, data := httpPost(t, baseURL(recommendationPort)+"/api/v1/recommendations", map[string]interface{}{
		"topics":      []string{"mongodb"},
		"skill_level": "beginner",
		"limit":       2,
	})
	requireStatus(t, status, 200)

	recs, ok := extractField(data, "data.recommendations").([]interface{})
	if !ok {
		t.Fatalf("expected recommendations array, got %v", data)
	}
	if len(recs) > 2 {
		t.Fatalf("expected at most 2 recommendations, got %d", len(recs))
	}
}

// TestRecommendationValidation verifies invalid requests are rejected.
func TestRecommendationValidation(t *testing.T) {
	skipIfNotRunning(t, recommendationPort)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing_topics", map[string]interface{}{"skill_level": "beginner"}},
		{"missing_skill_level", map[string]interface{}{"topics": []string{"go"}}},
		{"invalid_skill_level", map[string]interface{}{"topics": []string{"go"}, "skill_level": "expert"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := httpPost(t, baseURL(recommendationPort)+"/api/v1/recommendations", tc.body)
			requireStatus(t, status, 400)
		})
	}
}

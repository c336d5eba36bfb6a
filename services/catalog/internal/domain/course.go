package domain

import (
	"fmt"
	"strings"
	"time"
)

// Skill levels for courses.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// ValidSkillLevels returns the list of recognized skill levels.
func ValidSkillLevels() []string {
	return []string{SkillBeginner, SkillIntermediate, SkillAdvanced}
}

// IsValidSkillLevel checks whether the given string is a recognized skill level.
func IsValidSkillLevel(level string) bool {
	for _, s := range ValidSkillLevels() {
		if s == level {
			return true
		}
	}
	return false
}

// NormalizeSkillLevel lowercases and trims the given level, falling back to
// "beginner" for empty or unrecognized values.
func NormalizeSkillLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if !IsValidSkillLevel(normalized) {
		return SkillBeginner
	}
	return normalized
}

// Course is the catalog's course record. RelevanceScore is populated only on
// search results; it is never stored.
type Course struct {
	ID             string    `json:"id,omitempty"`
	CourseCode     string    `json:"course_code"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Instructor     string    `json:"instructor"`
	Duration       string    `json:"duration"`
	SkillLevel     string    `json:"skill_level"`
	Tags           []string  `json:"tags"`
	Active         bool      `json:"active"`
	RelevanceScore float64   `json:"relevance_score,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// UpsertRecord is a single course submitted for batch ingestion.
type UpsertRecord struct {
	CourseCode  string   `json:"course_code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Instructor  string   `json:"instructor"`
	Duration    string   `json:"duration"`
	SkillLevel  string   `json:"skill_level"`
	Tags        []string `json:"tags"`
}

// Validate checks that all required fields are present. SkillLevel and Tags
// are optional; they are normalized at ingestion.
func (r *UpsertRecord) Validate() error {
	var missing []string
	if strings.TrimSpace(r.CourseCode) == "" {
		missing = append(missing, "course_code")
	}
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(r.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Instructor) == "" {
		missing = append(missing, "instructor")
	}
	if strings.TrimSpace(r.Duration) == "" {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ToCourse converts a validated record into a Course with normalized fields.
func (r *UpsertRecord) ToCourse() Course {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return Course{
		CourseCode:  strings.TrimSpace(r.CourseCode),
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		Instructor:  strings.TrimSpace(r.Instructor),
		Duration:    strings.TrimSpace(r.Duration),
		SkillLevel:  NormalizeSkillLevel(r.SkillLevel),
		Tags:        tags,
		Active:      true,
	}
}

// SearchQuery holds all parameters for a course search request.
type SearchQuery struct {
	Query      string `json:"query"`
	Category   string `json:"category,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// Normalize trims and lowercases all string parameters and clamps the paging
// window (limit defaults to 10, capped at 100; negative offsets become 0).
// Two queries that normalize identically hit the same cache entry.
func (q *SearchQuery) Normalize() {
	q.Query = strings.ToLower(strings.TrimSpace(q.Query))
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.Instructor = strings.ToLower(strings.TrimSpace(q.Instructor))
	q.SkillLevel = strings.ToLower(strings.TrimSpace(q.SkillLevel))
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// SearchPage is one page of search results, as produced by an engine and as
// cached in Redis.
type SearchPage struct {
	Courses    []Course `json:"courses"`
	TotalCount int      `json:"total_count"`
	TookMs     int64    `json:"took_ms,omitempty"`
}

// SearchResult is the caller-facing search response.
type SearchResult struct {
	Courses    []Course `json:"courses"`
	TotalCount int      `json:"total_count"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
	FromCache  bool     `json:"from_cache"`
}

// CourseResult is the caller-facing single-course response. Course is null
// when no course exists under the requested code.
type CourseResult struct {
	Course    *Course `json:"course"`
	FromCache bool    `json:"from_cache"`
}

// UpsertSummary reports the outcome of a batch ingestion. Uploaded counts
// successful store upserts; Indexed counts documents accepted by the search
// index and may be lower than Uploaded.
type UpsertSummary struct {
	Uploaded int `json:"courses_uploaded"`
	Indexed  int `json:"courses_indexed"`
}

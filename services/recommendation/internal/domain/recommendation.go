package domain

// Skill levels accepted in recommendation requests.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// ValidSkillLevel reports whether the given level is one of the accepted values.
func ValidSkillLevel(level string) bool {
	switch level {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// Course is a catalog course as returned by the catalog search API.
type Course struct {
	CourseCode  string   `json:"course_code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Instructor  string   `json:"instructor"`
	Duration    string   `json:"duration"`
	SkillLevel  string   `json:"skill_level"`
	Tags        []string `json:"tags"`
}

// Recommendation is a single recommended course with its relevance to the
// requested topics.
type Recommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	SkillLevel     string   `json:"skill_level"`
	Duration       string   `json:"duration"`
	Instructor     string   `json:"instructor"`
	RelevanceScore float64  `json:"relevance_score"`
	Topics         []string `json:"topics"`
}

// Result is the full recommendation response.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	TotalCount      int              `json:"total_count"`
	Source          string           `json:"source"`
}

// Sources for a recommendation result.
const (
	SourceCatalog  = "catalog"
	SourceFallback = "fallback"
)

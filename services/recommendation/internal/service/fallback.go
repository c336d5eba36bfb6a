package service

import (
	"sort"
	"strings"

	"github.com/ysam020/assessment/services/recommendation/internal/domain"
)

// fallbackCourses is the static recommendation table served when the catalog
// is unreachable.
var fallbackCourses = []domain.Recommendation{
	{
		Title:          "Complete MongoDB Development Bootcamp",
		Description:    "Master MongoDB from basics to advanced. Learn data modeling, indexing, aggregation pipelines, and building scalable database solutions.",
		Category:       "Database",
		SkillLevel:     domain.SkillBeginner,
		Duration:       "8 weeks",
		Instructor:     "Prof. David Kumar",
		Topics:         []string{"MongoDB", "Database", "NoSQL"},
		RelevanceScore: 0.95,
	},
	{
		Title:          "Advanced MongoDB Performance Optimization",
		Description:    "Deep dive into MongoDB performance tuning, sharding, replication, and production best practices for enterprise applications.",
		Category:       "Database",
		SkillLevel:     domain.SkillAdvanced,
		Duration:       "6 weeks",
		Instructor:     "Dr. Sarah Chen",
		Topics:         []string{"MongoDB", "Performance", "Database"},
		RelevanceScore: 0.88,
	},
	{
		Title:          "Complete Web Development Bootcamp",
		Description:    "Learn HTML, CSS, JavaScript, React, Node.js, and MongoDB. Build 10+ real-world projects and become a full-stack developer.",
		Category:       "Web Development",
		SkillLevel:     domain.SkillBeginner,
		Duration:       "12 weeks",
		Instructor:     "Prof. John Smith",
		Topics:         []string{"JavaScript", "React", "Node.js", "MongoDB", "Web Development"},
		RelevanceScore: 0.85,
	},
	{
		Title:          "MERN Stack Masterclass",
		Description:    "Build production-ready applications with MongoDB, Express, React, and Node.js. Includes authentication, API design, and deployment.",
		Category:       "Web Development",
		SkillLevel:     domain.SkillIntermediate,
		Duration:       "10 weeks",
		Instructor:     "Dr. Emily Johnson",
		Topics:         []string{"MongoDB", "Express", "React", "Node.js"},
		RelevanceScore: 0.92,
	},
	{
		Title:          "Database Design and Architecture with MongoDB",
		Description:    "Learn database design patterns, schema optimization, and architectural best practices for building scalable MongoDB applications.",
		Category:       "Database",
		SkillLevel:     domain.SkillIntermediate,
		Duration:       "7 weeks",
		Instructor:     "Prof. Michael Zhang",
		Topics:         []string{"MongoDB", "Database Design", "Architecture"},
		RelevanceScore: 0.87,
	},
	{
		Title:          "Python for Data Science and Machine Learning",
		Description:    "Comprehensive course covering NumPy, Pandas, Matplotlib, Scikit-learn, and TensorFlow for data analysis and ML projects.",
		Category:       "Data Science",
		SkillLevel:     domain.SkillBeginner,
		Duration:       "10 weeks",
		Instructor:     "Dr. Lisa Anderson",
		Topics:         []string{"Python", "Data Science", "Machine Learning"},
		RelevanceScore: 0.65,
	},
	{
		Title:          "Advanced React Patterns and Performance",
		Description:    "Master advanced React concepts including hooks, context, Redux, and performance optimization techniques for production applications.",
		Category:       "Web Development",
		SkillLevel:     domain.SkillAdvanced,
		Duration:       "6 weeks",
		Instructor:     "Dr. Emily Chen",
		Topics:         []string{"React", "JavaScript", "Performance"},
		RelevanceScore: 0.70,
	},
	{
		Title:          "Node.js and Express Backend Development",
		Description:    "Build RESTful APIs, implement authentication, work with databases, and deploy Node.js applications to production.",
		Category:       "Backend Development",
		SkillLevel:     domain.SkillIntermediate,
		Duration:       "8 weeks",
		Instructor:     "Prof. Robert Martinez",
		Topics:         []string{"Node.js", "Express", "Backend", "MongoDB"},
		RelevanceScore: 0.82,
	},
}

// fallbackRecommendations filters the static table by topic overlap and skill
// level, sorts by relevance, and pads with the remaining courses when the
// filter yields fewer than limit results.
func fallbackRecommendations(topics []string, skillLevel string, limit int) []domain.Recommendation {
	matched := make([]domain.Recommendation, 0, len(fallbackCourses))
	for _, course := range fallbackCourses {
		if topicsOverlap(topics, course.Topics) || strings.EqualFold(course.SkillLevel, skillLevel) {
			matched = append(matched, course)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RelevanceScore > matched[j].RelevanceScore
	})

	if len(matched) < limit {
		for _, course := range fallbackCourses {
			if !containsTitle(matched, course.Title) {
				matched = append(matched, course)
			}
		}
	}

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// topicsOverlap reports whether any requested topic matches any course topic,
// in either containment direction, case-insensitively.
func topicsOverlap(requested, courseTopics []string) bool {
	for _, want := range requested {
		w := strings.ToLower(want)
		for _, have := range courseTopics {
			h := strings.ToLower(have)
			if strings.Contains(h, w) || strings.Contains(w, h) {
				return true
			}
		}
	}
	return false
}

func containsTitle(recs []domain.Recommendation, title string) bool {
	for _, r := range recs {
		if r.Title == title {
			return true
		}
	}
	return false
}

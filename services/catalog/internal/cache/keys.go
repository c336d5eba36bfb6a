package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// Key prefixes for the two cache namespaces.
const (
	searchKeyPrefix = "search:"
	courseKeyPrefix = "course:"
)

// SearchKey derives a deterministic cache key for a search query. The query
// must already be normalized; the parameters are serialized in a fixed field
// order and hashed so that equivalent queries map to the same key regardless
// of how the caller spelled them.
func SearchKey(q domain.SearchQuery) string {
	canonical := fmt.Sprintf("q=%s|category=%s|instructor=%s|skill_level=%s|limit=%d|offset=%d",
		q.Query, q.Category, q.Instructor, q.SkillLevel, q.Limit, q.Offset)
	sum := sha256.Sum256([]byte(canonical))
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}

// CourseKey returns the cache key for a single course lookup.
func CourseKey(courseCode string) string {
	return courseKeyPrefix + strings.TrimSpace(courseCode)
}

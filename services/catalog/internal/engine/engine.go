package engine

import (
	"context"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// SearchEngine defines the interface for indexing and searching courses.
// Implementations may use Elasticsearch, in-memory storage, or other backends.
type SearchEngine interface {
	// Index adds or updates a single course in the search index.
	Index(ctx context.Context, course *domain.Course) error

	// Delete removes a course from the search index by its course code.
	Delete(ctx context.Context, courseCode string) error

	// Search executes a normalized search query and returns one page of
	// matching courses with the full filtered total.
	Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchPage, error)

	// BulkIndex adds or updates multiple courses in a single call and returns
	// the number of documents the index accepted. Per-document failures reduce
	// the count without failing the whole batch.
	BulkIndex(ctx context.Context, courses []domain.Course) (int, error)
}

package repository

import (
	"context"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// CourseRepository defines the interface for course persistence operations.
// The store is the system of record; the search index is derived from it.
type CourseRepository interface {
	// Upsert inserts the course or, when the course code already exists,
	// updates the mutable fields. New rows get generated IDs and timestamps;
	// the course is updated in place with the stored values.
	Upsert(ctx context.Context, course *domain.Course) error

	// GetByCode retrieves a course by its unique course code.
	// Returns apperrors.ErrNotFound when no such course exists.
	GetByCode(ctx context.Context, courseCode string) (*domain.Course, error)

	// List returns a page of courses ordered by course code, with the total count.
	List(ctx context.Context, limit, offset int) ([]domain.Course, int, error)

	// Delete removes a course from the store by its course code.
	Delete(ctx context.Context, courseCode string) error
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ysam020/assessment/pkg/database"
	apperrors "github.com/ysam020/assessment/pkg/errors"
	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// CourseRepository implements repository.CourseRepository using PostgreSQL.
type CourseRepository struct {
	pool database.DBTX
}

// NewCourseRepository creates a new PostgreSQL-backed course repository.
func NewCourseRepository(pool database.DBTX) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, course_code, title, description, category, instructor, duration, skill_level, tags, active, created_at, updated_at`

// Upsert inserts the course or updates the existing row with the same course
// code. The stored id and timestamps are written back into the given course.
func (r *CourseRepository) Upsert(ctx context.Context, c *domain.Course) (err error) {
	ctx, end := database.TraceQuery(ctx, "UpsertCourse", "INSERT INTO courses ... ON CONFLICT (course_code) DO UPDATE")
	defer func() { end(err) }()

	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO courses (id, course_code, title, description, category, instructor, duration, skill_level, tags, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (course_code) DO UPDATE SET
			title       = EXCLUDED.title,
			description = EXCLUDED.description,
			category    = EXCLUDED.category,
			instructor  = EXCLUDED.instructor,
			duration    = EXCLUDED.duration,
			skill_level = EXCLUDED.skill_level,
			tags        = EXCLUDED.tags,
			active      = EXCLUDED.active,
			updated_at  = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		c.ID,
		c.CourseCode,
		c.Title,
		c.Description,
		c.Category,
		c.Instructor,
		c.Duration,
		c.SkillLevel,
		tagsJSON,
		c.Active,
		now,
		now,
	)

	if err = row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}

	return nil
}

// GetByCode retrieves a course by its unique course code.
func (r *CourseRepository) GetByCode(ctx context.Context, courseCode string) (course *domain.Course, err error) {
	ctx, end := database.TraceQuery(ctx, "GetCourseByCode", "SELECT ... FROM courses WHERE course_code = $1")
	defer func() { end(err) }()

	query := fmt.Sprintf(`SELECT %s FROM courses WHERE course_code = $1`, courseColumns)

	course, err = r.scanCourse(r.pool.QueryRow(ctx, query, courseCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get course by code: %w", err)
	}
	return course, nil
}

// List returns a page of courses ordered by course code, with the total count.
func (r *CourseRepository) List(ctx context.Context, limit, offset int) (courses []domain.Course, total int, err error) {
	ctx, end := database.TraceQuery(ctx, "ListCourses", "SELECT ... FROM courses ORDER BY course_code")
	defer func() { end(err) }()

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM courses
		ORDER BY course_code
		LIMIT $1 OFFSET $2`, courseColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses = make([]domain.Course, 0, limit)
	for rows.Next() {
		var (
			c        domain.Course
			tagsJSON []byte
		)
		if err = rows.Scan(
			&c.ID, &c.CourseCode, &c.Title, &c.Description, &c.Category,
			&c.Instructor, &c.Duration, &c.SkillLevel, &tagsJSON, &c.Active,
			&c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan course row: %w", err)
		}
		if err = unmarshalTags(tagsJSON, &c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate course rows: %w", err)
	}

	return courses, total, nil
}

// Delete removes a course from the store by its course code.
func (r *CourseRepository) Delete(ctx context.Context, courseCode string) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteCourse", "DELETE FROM courses WHERE course_code = $1")
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE course_code = $1`, courseCode)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanCourse scans a single course row.
func (r *CourseRepository) scanCourse(row pgx.Row) (*domain.Course, error) {
	var (
		c        domain.Course
		tagsJSON []byte
	)
	if err := row.Scan(
		&c.ID, &c.CourseCode, &c.Title, &c.Description, &c.Category,
		&c.Instructor, &c.Duration, &c.SkillLevel, &tagsJSON, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalTags(tagsJSON, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func unmarshalTags(tagsJSON []byte, c *domain.Course) error {
	c.Tags = []string{}
	if len(tagsJSON) == 0 {
		return nil
	}
	if err := json.Unmarshal(tagsJSON, &c.Tags); err != nil {
		return fmt.Errorf("unmarshal tags: %w", err)
	}
	return nil
}

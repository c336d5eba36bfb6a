package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/ysam020/assessment/pkg/errors"
	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// Expected columns: course_id, title, description, category, instructor,
// duration, skill_level, tags. Header matching is case-insensitive and
// course_id accepts the courseId/id aliases some exports use. Tags are
// comma-separated within their cell.

// ParseCourses reads a CSV stream of course rows into upsert records.
// Rows are mapped, not validated; the batch upsert decides which records
// are complete enough to store.
func ParseCourses(r io.Reader) ([]domain.UpsertRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// exports disagree on trailing empty columns
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperrors.InvalidInput("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := indexColumns(header)
	if _, ok := columns["course_id"]; !ok {
		return nil, apperrors.InvalidInput("csv header is missing a course_id column")
	}

	var records []domain.UpsertRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, rowToRecord(columns, row))
	}
	return records, nil
}

// indexColumns maps normalized column names to their positions. The first
// occurrence of a name wins.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = normalizeColumn(name)
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}
	return columns
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "courseid", "id":
		return "course_id"
	case "skilllevel":
		return "skill_level"
	}
	return name
}

func rowToRecord(columns map[string]int, row []string) domain.UpsertRecord {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return domain.UpsertRecord{
		CourseCode:  field("course_id"),
		Title:       field("title"),
		Description: field("description"),
		Category:    field("category"),
		Instructor:  field("instructor"),
		Duration:    field("duration"),
		SkillLevel:  field("skill_level"),
		Tags:        splitTags(field("tags")),
	}
}

func splitTags(cell string) []string {
	if cell == "" {
		return []string{}
	}
	parts := strings.Split(cell, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

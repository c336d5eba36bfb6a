package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/ysam020/assessment/pkg/kafka"
	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// Kafka topic constants for course domain events.
const (
	TopicCourseUpserted = "catalog.course.upserted"
)

// Aggregate type constant.
const AggregateTypeCourse = "course"

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// CourseUpsertedData is the payload for a course.upserted event.
type CourseUpsertedData struct {
	CourseCode string   `json:"course_code"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Instructor string   `json:"instructor"`
	SkillLevel string   `json:"skill_level"`
	Tags       []string `json:"tags"`
}

// Producer publishes course domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCourseUpserted publishes a course.upserted event.
func (p *Producer) PublishCourseUpserted(ctx context.Context, course *domain.Course) error {
	data := CourseUpsertedData{
		CourseCode: course.CourseCode,
		Title:      course.Title,
		Category:   course.Category,
		Instructor: course.Instructor,
		SkillLevel: course.SkillLevel,
		Tags:       course.Tags,
	}

	event, err := pkgkafka.NewEvent(TopicCourseUpserted, course.CourseCode, AggregateTypeCourse, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create course.upserted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCourseUpserted, event); err != nil {
		return fmt.Errorf("publish course.upserted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published course.upserted event",
		slog.String("course_code", course.CourseCode),
	)

	return nil
}

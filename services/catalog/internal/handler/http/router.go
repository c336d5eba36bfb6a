package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ysam020/assessment/pkg/health"
	"github.com/ysam020/assessment/pkg/middleware"
	"github.com/ysam020/assessment/services/catalog/internal/service"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Catalog API endpoints
	courseHandler := NewCourseHandler(catalogService, logger)

	r.Route("/api/v1/courses", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(30))

			r.Get("/search", courseHandler.Search)
			r.Get("/{courseCode}", courseHandler.GetByCode)
		})

		// multipart upload, deliberately outside the JSON content-type guard
		r.Post("/upload", courseHandler.UploadCourses)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/batch", courseHandler.BatchUpsert)
		})
	})

	return r
}

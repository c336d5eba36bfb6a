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
	"github.com/ysam020/assessment/services/recommendation/internal/service"
)

// NewRouter creates a chi router with all recommendation service routes registered.
func NewRouter(
	recommendationService *service.RecommendationService,
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
	r.Use(middleware.PrometheusMetrics("recommendation"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	recommendationHandler := NewRecommendationHandler(recommendationService, logger)

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", recommendationHandler.Recommend)
	})

	return r
}

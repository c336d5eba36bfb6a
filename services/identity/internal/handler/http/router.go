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
	"github.com/ysam020/assessment/services/identity/internal/auth"
	"github.com/ysam020/assessment/services/identity/internal/service"
)

// NewRouter creates a chi router with all identity service routes registered.
func NewRouter(
	identityService *service.IdentityService,
	jwtManager *auth.JWTManager,
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
	r.Use(middleware.PrometheusMetrics("identity"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(identityService, logger)

	// Public auth endpoints
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Token validator that bridges to our internal JWTManager.
		tokenValidator := func(token string) (*middleware.Claims, error) {
			claims, err := jwtManager.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			return &middleware.Claims{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			}, nil
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/me", authHandler.Me)
		})
	})

	return r
}

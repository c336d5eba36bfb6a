package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ysam020/assessment/pkg/httputil"
	"github.com/ysam020/assessment/pkg/validator"
	"github.com/ysam020/assessment/services/recommendation/internal/domain"
	"github.com/ysam020/assessment/services/recommendation/internal/service"
)

// RecommendationHandler exposes recommendation operations over HTTP.
type RecommendationHandler struct {
	service *service.RecommendationService
	logger  *slog.Logger
}

func NewRecommendationHandler(svc *service.RecommendationService, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: svc,
		logger:  logger,
	}
}

// RecommendRequest is the payload for POST /api/v1/recommendations.
type RecommendRequest struct {
	Topics            []string `json:"topics" validate:"required,min=1,dive,min=1"`
	SkillLevel        string   `json:"skill_level" validate:"required"`
	PreferredDuration string   `json:"preferred_duration,omitempty"`
	Limit             int      `json:"limit,omitempty" validate:"omitempty,min=1,max=20"`
}

// RecommendResponse is the success payload for POST /api/v1/recommendations.
type RecommendResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	TotalCount      int                     `json:"total_count"`
	Source          string                  `json:"source"`
}

// Recommend handles POST /api/v1/recommendations.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "invalid request body",
			},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Recommend(r.Context(), service.RecommendInput{
		Topics:            req.Topics,
		SkillLevel:        req.SkillLevel,
		PreferredDuration: req.PreferredDuration,
		Limit:             req.Limit,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: RecommendResponse{
			Recommendations: result.Recommendations,
			TotalCount:      result.TotalCount,
			Source:          result.Source,
		},
	})
}

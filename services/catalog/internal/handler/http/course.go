package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ysam020/assessment/pkg/httputil"
	"github.com/ysam020/assessment/pkg/pagination"
	"github.com/ysam020/assessment/pkg/validator"
	"github.com/ysam020/assessment/services/catalog/internal/domain"
	"github.com/ysam020/assessment/services/catalog/internal/ingest"
	"github.com/ysam020/assessment/services/catalog/internal/service"
)

// maxUploadSize caps CSV uploads at 10 MB.
const maxUploadSize = 10 << 20

// CourseHandler handles HTTP requests for catalog endpoints.
type CourseHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCourseHandler creates a new catalog HTTP handler.
func NewCourseHandler(svc *service.CatalogService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CourseRecordRequest is one course in a JSON batch upsert.
type CourseRecordRequest struct {
	CourseCode  string   `json:"course_code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Instructor  string   `json:"instructor"`
	Duration    string   `json:"duration"`
	SkillLevel  string   `json:"skill_level"`
	Tags        []string `json:"tags"`
}

// BatchUpsertRequest is the JSON request body for programmatic batch upserts.
// Per-record completeness is checked by the batch upsert itself, which skips
// incomplete records instead of rejecting the whole batch.
type BatchUpsertRequest struct {
	Courses []CourseRecordRequest `json:"courses" validate:"required,min=1,max=500"`
}

// --- Handlers ---

// Search handles GET /api/v1/courses/search
func (h *CourseHandler) Search(w http.ResponseWriter, r *http.Request) {
	window := pagination.FromRequest(r)

	query := domain.SearchQuery{
		Query:      r.URL.Query().Get("query"),
		Category:   r.URL.Query().Get("category"),
		Instructor: r.URL.Query().Get("instructor"),
		SkillLevel: r.URL.Query().Get("skill_level"),
		Limit:      window.Limit,
		Offset:     window.Offset,
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetByCode handles GET /api/v1/courses/{courseCode}
func (h *CourseHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	courseCode := chi.URLParam(r, "courseCode")

	result, err := h.service.GetByCode(r.Context(), courseCode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// An unknown course code is a 200 with a null course, not a 404.
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// UploadCourses handles POST /api/v1/courses/upload
func (h *CourseHandler) UploadCourses(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		if errRequestTooLarge(err) {
			httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "PAYLOAD_TOO_LARGE", Message: "CSV upload must not exceed 10 MB"},
			})
			return
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid multipart form: " + err.Error()},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "no CSV file uploaded"},
		})
		return
	}
	defer file.Close()

	if !isCSVUpload(header.Header.Get("Content-Type"), header.Filename) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "only CSV files are allowed"},
		})
		return
	}

	records, err := ingest.ParseCourses(file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if len(records) == 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "no courses found in CSV"},
		})
		return
	}

	summary, err := h.service.UpsertBatch(r.Context(), records)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// BatchUpsert handles POST /api/v1/courses/batch
func (h *CourseHandler) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req BatchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	records := make([]domain.UpsertRecord, 0, len(req.Courses))
	for _, c := range req.Courses {
		records = append(records, domain.UpsertRecord{
			CourseCode:  c.CourseCode,
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Instructor:  c.Instructor,
			Duration:    c.Duration,
			SkillLevel:  c.SkillLevel,
			Tags:        c.Tags,
		})
	}

	summary, err := h.service.UpsertBatch(r.Context(), records)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

func isCSVUpload(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "text/csv") || strings.HasPrefix(contentType, "application/csv") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

// errRequestTooLarge reports whether the error came from MaxBytesReader.
func errRequestTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

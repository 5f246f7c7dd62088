package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/response"
	"github.com/stemsi/historico-backend/internal/service"
	"github.com/stemsi/historico-backend/internal/validator"
)

// GradeHandler exposes an enrollment's grade set.
type GradeHandler struct {
	grades *service.GradeSyncService
	log    zerolog.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(grades *service.GradeSyncService, log zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		grades: grades,
		log:    log.With().Str("component", "grade_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/admin/enrollments/:id/grades
func (h *GradeHandler) List(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	grades, err := h.grades.ListEnrollmentGrades(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log.With().Str("enrollment_id", id.String()).Logger(), err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}

// Sync godoc
// PUT /api/v1/admin/enrollments/:id/grades
// Makes the enrollment's subjects equal to the submitted list.
func (h *GradeHandler) Sync(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.SyncGradesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.grades.SyncEnrollmentSubjects(c.Request.Context(), id, req.SubjectIDs)
	if err != nil {
		failWithError(c, h.log.With().Str("enrollment_id", id.String()).Logger(), err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

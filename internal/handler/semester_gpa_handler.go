package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-gpa-api/internal/dto"
	"github.com/noah-isme/campus-gpa-api/internal/middleware"
	"github.com/noah-isme/campus-gpa-api/internal/models"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
	"github.com/noah-isme/campus-gpa-api/pkg/response"
)

type semesterGPAService interface {
	Upsert(ctx context.Context, userID, actor string, req dto.UpsertSemesterGPARequest) (*models.SemesterGPA, error)
	Update(ctx context.Context, userID, rawSemesterID, actor string, req dto.UpdateSemesterGPARequest) (*models.SemesterGPA, error)
	ListForUser(ctx context.Context, userID string) ([]models.SemesterGPA, error)
	Get(ctx context.Context, userID, rawSemesterID string) (*models.SemesterGPA, error)
	GetByID(ctx context.Context, id string) (*models.SemesterGPA, error)
	Delete(ctx context.Context, userID, rawSemesterID string) error
	DeleteByID(ctx context.Context, id string) error
	CGPA(ctx context.Context, userID string) (*models.CGPASummary, bool, error)
	BatchAverage(ctx context.Context, uniYear models.UniYear) (*models.BatchAverage, bool, error)
	BatchAverageForUser(ctx context.Context, userID string) (*models.BatchAverage, bool, error)
}

type transcriptExporter interface {
	Export(ctx context.Context, userID string, format models.TranscriptFormat) (*models.TranscriptFile, error)
}

// SemesterGPAHandler serves both the student (self) and admin (any user) GPA routes. The
// target user is the :userId parameter when present, otherwise the caller.
type SemesterGPAHandler struct {
	service     semesterGPAService
	transcripts transcriptExporter
}

// NewSemesterGPAHandler constructs the handler.
func NewSemesterGPAHandler(service semesterGPAService, transcripts transcriptExporter) *SemesterGPAHandler {
	return &SemesterGPAHandler{service: service, transcripts: transcripts}
}

// Upsert godoc
// @Summary Create or replace a semester GPA record
// @Description Computes total credits and GPA from the subjects and stores one record per (user, semester)
// @Tags SemesterGPA
// @Accept json
// @Produce json
// @Param payload body dto.UpsertSemesterGPARequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/semester-gpa [post]
func (h *SemesterGPAHandler) Upsert(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpsertSemesterGPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}
	record, err := h.service.Upsert(c.Request.Context(), userID, actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if record.IsNew() {
		status = http.StatusCreated
	}
	response.JSON(c, status, dto.NewSemesterGPAResponse(record), nil)
}

// List godoc
// @Summary List semester GPA records
// @Tags SemesterGPA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/semester-gpa [get]
func (h *SemesterGPAHandler) List(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSemesterGPAResponses(records), nil)
}

// Get godoc
// @Summary Get one semester GPA record
// @Tags SemesterGPA
// @Produce json
// @Param semesterId path string true "Semester identifier (FIRST..EIGHTH)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/semester-gpa/semester/{semesterId} [get]
func (h *SemesterGPAHandler) Get(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.service.Get(c.Request.Context(), userID, c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSemesterGPAResponse(record), nil)
}

// Update godoc
// @Summary Update a semester GPA record
// @Description Renames the semester and/or replaces its subjects, recomputing totals
// @Tags SemesterGPA
// @Accept json
// @Produce json
// @Param semesterId path string true "Semester identifier"
// @Param payload body dto.UpdateSemesterGPARequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/semester-gpa/semester/{semesterId} [put]
func (h *SemesterGPAHandler) Update(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateSemesterGPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), userID, c.Param("semesterId"), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSemesterGPAResponse(record), nil)
}

// Delete godoc
// @Summary Delete a semester GPA record
// @Tags SemesterGPA
// @Param semesterId path string true "Semester identifier"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/semester-gpa/semester/{semesterId} [delete]
func (h *SemesterGPAHandler) Delete(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, c.Param("semesterId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CGPA godoc
// @Summary Cumulative GPA
// @Tags SemesterGPA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/semester-gpa/cgpa [get]
func (h *SemesterGPAHandler) CGPA(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summary, hit, err := h.service.CGPA(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCGPAResponse(summary), nil, metaWithCache(c, hit))
}

// MyBatchAverage godoc
// @Summary Batch average for the caller's cohort
// @Tags SemesterGPA
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/semester-gpa/batch-average [get]
func (h *SemesterGPAHandler) MyBatchAverage(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	avg, hit, err := h.service.BatchAverageForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCohort(c, string(avg.UniYear))
	response.JSON(c, http.StatusOK, dto.NewBatchAverageResponse(avg), nil, metaWithCache(c, hit))
}

// BatchAverage godoc
// @Summary Batch average for a cohort
// @Tags SemesterGPA
// @Produce json
// @Param uniYear path string true "Cohort (FIRST_YEAR..FOURTH_YEAR)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/semester-gpa/batch/{uniYear} [get]
func (h *SemesterGPAHandler) BatchAverage(c *gin.Context) {
	uniYear, ok := models.ParseUniYear(c.Param("uniYear"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "uniYear must be one of FIRST_YEAR, SECOND_YEAR, THIRD_YEAR, FOURTH_YEAR"))
		return
	}
	avg, hit, err := h.service.BatchAverage(c.Request.Context(), uniYear)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCohort(c, string(avg.UniYear))
	response.JSON(c, http.StatusOK, dto.NewBatchAverageResponse(avg), nil, metaWithCache(c, hit))
}

// GetByID godoc
// @Summary Get a semester GPA record by id
// @Tags SemesterGPA
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/semester-gpa/{id} [get]
func (h *SemesterGPAHandler) GetByID(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSemesterGPAResponse(record), nil)
}

// DeleteByID godoc
// @Summary Delete a semester GPA record by id
// @Tags SemesterGPA
// @Param id path string true "Record ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/semester-gpa/{id} [delete]
func (h *SemesterGPAHandler) DeleteByID(c *gin.Context) {
	if err := h.service.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Transcript godoc
// @Summary Download transcript
// @Tags SemesterGPA
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /student/semester-gpa/transcript [get]
func (h *SemesterGPAHandler) Transcript(c *gin.Context) {
	if h.transcripts == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "transcript export is disabled"))
		return
	}
	userID, ok := targetUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	file, err := h.transcripts.Export(c.Request.Context(), userID, models.TranscriptFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/session-engine/internal/repositories"
	"github.com/SAP-F-2025/session-engine/internal/services"
	"github.com/SAP-F-2025/session-engine/internal/utils"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	exportService     services.ExportService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	exportService services.ExportService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		exportService:     exportService,
	}
}

// CreateAssessment creates a new assessment definition
// @Summary Create assessment
// @Description Creates an assessment with its questions, validating every content shape
// @Tags assessments
// @Accept json
// @Produce json
// @Param assessment body services.CreateAssessmentRequest true "Assessment data"
// @Success 201 {object} models.Assessment
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating assessment", "title", req.Title, "questions", len(req.Questions))

	assessment, err := h.assessmentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// GetAssessment retrieves an assessment by ID
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	assessment, err := h.assessmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// ListAssessments lists assessments with optional title filter and pagination
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	filters := repositories.AssessmentFilters{
		Limit:  ParseIntQuery(c, "limit", 20),
		Offset: ParseIntQuery(c, "offset", 0),
	}
	if title := c.Query("title"); title != "" {
		filters.Title = &title
	}

	assessments, total, err := h.assessmentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items: assessments,
		Total: total,
	})
}

// ExportResults streams an xlsx report of the stored results for an assessment
// @Summary Export assessment results
// @Description Exports all persisted results for an assessment as an Excel file
// @Tags assessments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Assessment ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/results/export [get]
func (h *AssessmentHandler) ExportResults(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	filters := repositories.ResultFilters{
		Limit:  ParseIntQuery(c, "limit", 0),
		Offset: ParseIntQuery(c, "offset", 0),
		Passed: ParseBoolQuery(c, "passed"),
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}

	h.LogRequest(c, "Exporting assessment results", "assessment_id", id)

	data, err := h.exportService.ExportResultsToExcel(c.Request.Context(), id, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("results_%s_%s.xlsx", id, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

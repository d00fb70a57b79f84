package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/session-engine/internal/services"
	"github.com/SAP-F-2025/session-engine/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// StartSession creates a fresh session over an assessment definition
// @Summary Start session
// @Description Creates a session in the not-started state for the authenticated student
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Session data"
// @Success 201 {object} models.Session
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.StudentID = studentID

	h.LogRequest(c, "Starting session", "assessment_id", req.AssessmentID)

	sess, err := h.sessionService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// BeginSession moves a session into progress and arms its countdown
// @Summary Begin session
// @Description Transitions a not-started session to in-progress and starts the timer
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.Session
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/begin [post]
func (h *SessionHandler) BeginSession(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Beginning session", "session_id", sessionID)

	sess, err := h.sessionService.Begin(c.Request.Context(), sessionID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// GetSession returns a snapshot of a live session
func (h *SessionHandler) GetSession(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	sess, err := h.sessionService.Get(c.Request.Context(), sessionID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// SubmitAnswer records or replaces the answer for a question
// @Summary Submit answer
// @Description Records an answer for a question in an in-progress session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body services.SubmitAnswerRequest true "Answer data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.sessionService.Answer(c.Request.Context(), sessionID, studentID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer recorded"})
}

// Navigate moves the session cursor (next, previous, or goto)
func (h *SessionHandler) Navigate(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	sess, err := h.sessionService.Navigate(c.Request.Context(), sessionID, studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// ToggleReview flips the marked-for-review flag on a question
func (h *SessionHandler) ToggleReview(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	sess, err := h.sessionService.ToggleReview(c.Request.Context(), sessionID, studentID, questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// SubmitSession finalizes the session and returns the scored result
// @Summary Submit session
// @Description Submits an in-progress session and returns the scored result. Safe to call
// concurrently with timer expiry, the first completed submission wins.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.Result
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", sessionID)

	result, err := h.sessionService.Submit(c.Request.Context(), sessionID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult returns the result of a submitted session
func (h *SessionHandler) GetResult(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	result, err := h.sessionService.Result(c.Request.Context(), sessionID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTimeRemaining reports the seconds left on a timed session
func (h *SessionHandler) GetTimeRemaining(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	remaining, err := h.sessionService.TimeRemaining(c.Request.Context(), sessionID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining_seconds": remaining})
}

// AbandonSession discards a live session without scoring it
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	studentID := h.requireStudentID(c)
	if studentID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	h.LogRequest(c, "Abandoning session", "session_id", sessionID)

	if err := h.sessionService.Abandon(c.Request.Context(), sessionID, studentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session abandoned"})
}

func (h *SessionHandler) requireStudentID(c *gin.Context) string {
	studentID, exists := c.Get("student_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return ""
	}
	id, ok := studentID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return ""
	}
	return id
}

package handlers

import (
	"github.com/SAP-F-2025/session-engine/internal/config"
	"github.com/SAP-F-2025/session-engine/internal/services"
	"github.com/SAP-F-2025/session-engine/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	sessionHandler    *SessionHandler
	authMiddleware    gin.HandlerFunc
}

func NewHandlerManager(
	assessmentService services.AssessmentService,
	sessionService services.SessionService,
	exportService services.ExportService,
	casdoorCfg config.CasdoorConfig,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(assessmentService, exportService, logger),
		sessionHandler:    NewSessionHandler(sessionService, logger),
		authMiddleware:    AuthMiddleware(casdoorCfg, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "session-engine",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware)
	{
		// Assessment routes
		assessments := v1.Group("/assessments")
		{
			assessments.POST("", hm.assessmentHandler.CreateAssessment)
			assessments.GET("", hm.assessmentHandler.ListAssessments)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.GET("/:id/results/export", hm.assessmentHandler.ExportResults)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/begin", hm.sessionHandler.BeginSession)
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/:id/review/:question_id", hm.sessionHandler.ToggleReview)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.GetTimeRemaining)
			sessions.DELETE("/:id", hm.sessionHandler.AbandonSession)
		}
	}
}

package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quality-service/internal/metrics"
	"github.com/SAP-F-2025/quality-service/internal/services"
	"github.com/SAP-F-2025/quality-service/internal/utils"
	"github.com/SAP-F-2025/quality-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	qualityHandler *QualityHandler
	sessionService services.SessionService
	metrics        *metrics.Metrics
}

func NewHandlerManager(
	sessionService services.SessionService,
	metrics *metrics.Metrics,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(sessionService, validator, logger),
		qualityHandler: NewQualityHandler(sessionService, logger),
		sessionService: sessionService,
		metrics:        metrics,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", gin.WrapH(hm.metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id/time", hm.sessionHandler.GetTime)
			sessions.POST("/:id/visibility", hm.sessionHandler.ReportVisibility)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.DELETE("/:id", hm.sessionHandler.AbandonSession)
		}

		q := v1.Group("/quality")
		{
			q.POST("/evaluate", hm.qualityHandler.Evaluate)
			q.POST("/text", hm.qualityHandler.AnalyzeText)
			q.POST("/sentiment", hm.qualityHandler.CheckSentiment)
		}
	}
}

func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "quality-service",
		"active_sessions": hm.sessionService.ActiveSessions(),
	})
}

package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quality-service/internal/services"
	"github.com/SAP-F-2025/quality-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// QualityHandler exposes the evaluators to callers that run their own timer
type QualityHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewQualityHandler(sessionService services.SessionService, logger utils.Logger) *QualityHandler {
	return &QualityHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// Evaluate scores a complete submission
// @Summary Evaluate submission
// @Tags quality
// @Accept json
// @Produce json
// @Param submission body services.EvaluateRequest true "Responses, time gate and questions"
// @Success 200 {object} models.QualityResult
// @Failure 400 {object} ErrorResponse
// @Router /quality/evaluate [post]
func (h *QualityHandler) Evaluate(c *gin.Context) {
	var req services.EvaluateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.sessionService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeText scores a single free-text answer
// @Summary Analyze text
// @Tags quality
// @Accept json
// @Produce json
// @Param text body services.AnalyzeTextRequest true "Answer text"
// @Success 200 {object} models.TextQuality
// @Failure 400 {object} ErrorResponse
// @Router /quality/text [post]
func (h *QualityHandler) AnalyzeText(c *gin.Context) {
	var req services.AnalyzeTextRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.sessionService.AnalyzeText(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckSentiment compares a rating with the polarity of its explanation
// @Summary Check sentiment consistency
// @Tags quality
// @Accept json
// @Produce json
// @Param sentiment body services.SentimentRequest true "Rating and text"
// @Success 200 {object} services.SentimentResult
// @Failure 400 {object} ErrorResponse
// @Router /quality/sentiment [post]
func (h *QualityHandler) CheckSentiment(c *gin.Context) {
	var req services.SentimentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.sessionService.CheckSentiment(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

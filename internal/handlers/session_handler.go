package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quality-service/internal/services"
	"github.com/SAP-F-2025/quality-service/internal/utils"
	"github.com/SAP-F-2025/quality-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession starts a task session or resumes one after a reload
// @Summary Start session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Task and campaign"
// @Success 201 {object} services.SessionView
// @Success 200 {object} services.SessionView "Resumed"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting session", "task_id", req.TaskID, "campaign_id", req.CampaignID)

	view, err := h.sessionService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if view.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, view)
}

// GetTime returns the active-time reading of a session
// @Summary Session time gate
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.TimeGateSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/time [get]
func (h *SessionHandler) GetTime(c *gin.Context) {
	sessionID := h.parseSessionID(c)
	if sessionID == "" {
		return
	}

	snapshot, err := h.sessionService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ReportVisibility feeds a foreground/background change into the session tracker
// @Summary Report visibility
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param visibility body services.VisibilityRequest true "Visibility"
// @Success 200 {object} models.TimeGateSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/visibility [post]
func (h *SessionHandler) ReportVisibility(c *gin.Context) {
	sessionID := h.parseSessionID(c)
	if sessionID == "" {
		return
	}

	var req services.VisibilityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogDebug(c, "Visibility change", "session_id", sessionID, "visible", *req.Visible)

	snapshot, err := h.sessionService.ReportVisibility(c.Request.Context(), sessionID, *req.Visible)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// SubmitSession evaluates the responses and ends the session
// @Summary Submit responses
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param submission body services.SubmitRequest true "Responses and honeypot value"
// @Success 200 {object} services.SubmitResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	sessionID := h.parseSessionID(c)
	if sessionID == "" {
		return
	}

	var req services.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", sessionID, "responses", len(req.Responses))

	result, err := h.sessionService.Submit(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AbandonSession ends a session without submitting
// @Summary Abandon session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	sessionID := h.parseSessionID(c)
	if sessionID == "" {
		return
	}

	if err := h.sessionService.Abandon(c.Request.Context(), sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

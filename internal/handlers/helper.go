package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxSessionIDLength matches the limit on session_id in start requests
const maxSessionIDLength = 100

// parseSessionID reads the :id path parameter. It answers 400 and returns ""
// when the id is blank or too long.
func (h *BaseHandler) parseSessionID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || len(id) > maxSessionIDLength {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid session id", nil, "session id must be 1-100 characters")
		return ""
	}
	return id
}

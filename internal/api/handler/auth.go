package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// currentUserID extracts and verifies the Bearer token on a REST request.
// On failure the request is aborted with 401 and false is returned.
func (h *Handler) currentUserID(c *gin.Context) (int64, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return 0, false
	}

	userID, err := h.Auth.ParseUserID(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return 0, false
	}
	return userID, true
}

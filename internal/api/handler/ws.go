package handler

import (
	"log"
	"net/http"

	"dategogo/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket handles GET /ws/chat/:token. The credential is verified
// before the upgrade; a failed verification closes the request with no
// registration and no message exchange. On success the connection becomes
// the user's single live session, replacing (and closing) any previous one.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := c.Param("token")

	userID, err := h.Auth.ParseUserID(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	banned, err := h.Store.IsUserBanned(userID)
	if err != nil {
		log.Printf("ERROR: Ban check failed for user %d: %v", userID, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Ban check failed"})
		return
	}
	if banned {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User is banned"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		log.Printf("ERROR: Failed to upgrade connection for user %d: %v", userID, err)
		return
	}

	client := chathub.NewWebSocketClient(userID, conn, h.Registry, h.Router, h.Store, h.IdleTimeout, h.SendTimeout)

	// Last writer wins: the replaced session, if any, is closed here rather
	// than left open but unreachable.
	if prev := h.Registry.Register(userID, client); prev != nil {
		log.Printf("User %d reconnected, closing previous session", userID)
		prev.Close()
	}

	if err := h.Store.SetUserOnline(userID); err != nil {
		log.Printf("WARNING: Failed to publish presence for user %d: %v", userID, err)
	}
	log.Printf("User %d connected", userID)

	client.Run()
}

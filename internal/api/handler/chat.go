package handler

import (
	"net/http"
	"strconv"
	"strings"

	"dategogo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// GetChatHistory handles GET /api/chat/history?userId=&page=&size=, returning
// one page of the conversation between the caller and userId.
func (h *Handler) GetChatHistory(c *gin.Context) {
	me, ok := h.currentUserID(c)
	if !ok {
		return
	}

	other, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || other <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	history, err := h.Store.GetChatHistory(me, other, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}

// GetChatContacts handles GET /api/chat/contacts. Each contact is annotated
// with its live presence flag from the registry.
func (h *Handler) GetChatContacts(c *gin.Context) {
	me, ok := h.currentUserID(c)
	if !ok {
		return
	}

	contacts, err := h.Store.GetChatContacts(me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contacts"})
		return
	}

	result := make([]models.OnlineContact, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, contact.WithOnline(h.Registry.IsOnline(contact.ContactUserID)))
	}
	c.JSON(http.StatusOK, gin.H{"contacts": result})
}

// GetUnreadCount handles GET /api/chat/unread.
func (h *Handler) GetUnreadCount(c *gin.Context) {
	me, ok := h.currentUserID(c)
	if !ok {
		return
	}

	count, err := h.Store.GetUnreadCount(me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAsRead handles POST /api/chat/read, flagging every message from the
// given sender to the caller as read.
func (h *Handler) MarkAsRead(c *gin.Context) {
	me, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		FromUserID int64 `json:"fromUserId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Store.MarkAsRead(me, body.FromUserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetOnlineStatus handles GET /api/chat/online?ids=1,2,3, filtering the id
// list down to the users with a live session on this node.
func (h *Handler) GetOnlineStatus(c *gin.Context) {
	if _, ok := h.currentUserID(c); !ok {
		return
	}

	var ids []int64
	for _, part := range strings.Split(c.Query("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ids"})
			return
		}
		ids = append(ids, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"online":      h.Registry.FilterOnline(ids),
		"onlineCount": h.Registry.OnlineCount(),
	})
}

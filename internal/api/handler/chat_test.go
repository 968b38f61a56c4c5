package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"dategogo/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) get(t *testing.T, userID int64, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, env.server.URL+path, nil)
	require.NoError(t, err)
	if userID > 0 {
		token, err := env.auth.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChatEndpoints_RequireBearerToken(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	for _, path := range []string{"/api/chat/history?userId=2", "/api/chat/unread", "/api/chat/online"} {
		resp := env.get(t, 0, path)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s", path)
	}
}

func TestGetChatHistory_ReturnsPairConversation(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.store.SaveMessage(&models.ChatMessage{FromUserID: 1, ToUserID: 2, MessageType: models.MessageTypeText, Content: "hey"})
	env.store.SaveMessage(&models.ChatMessage{FromUserID: 2, ToUserID: 1, MessageType: models.MessageTypeText, Content: "hello"})
	env.store.SaveMessage(&models.ChatMessage{FromUserID: 1, ToUserID: 3, MessageType: models.MessageTypeText, Content: "other thread"})

	resp := env.get(t, 1, "/api/chat/history?userId=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Messages, 2, "only the (1,2) pair belongs in this history")
}

func TestGetUnreadCount(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.store.SaveMessage(&models.ChatMessage{FromUserID: 2, ToUserID: 1, MessageType: models.MessageTypeText, Content: "a"})
	env.store.SaveMessage(&models.ChatMessage{FromUserID: 3, ToUserID: 1, MessageType: models.MessageTypeText, Content: "b"})

	resp := env.get(t, 1, "/api/chat/unread")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Count)
}

func TestMarkAsRead_ClearsUnread(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.store.SaveMessage(&models.ChatMessage{FromUserID: 2, ToUserID: 1, MessageType: models.MessageTypeText, Content: "a"})

	token, err := env.auth.GenerateToken(1)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/chat/read",
		strings.NewReader(`{"fromUserId":2}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	count, err := env.store.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetOnlineStatus_FiltersThroughRegistry(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.dial(t, 2)
	env.waitOnline(t, 2)

	resp := env.get(t, 1, "/api/chat/online?ids=2,3,4")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Online      []int64 `json:"online"`
		OnlineCount int     `json:"onlineCount"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, []int64{2}, body.Online)
	assert.Equal(t, 1, body.OnlineCount)
}

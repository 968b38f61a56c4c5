package handler

import (
	"time"

	"dategogo/backend/internal/chathub"
	"dategogo/backend/internal/storage"
)

// TokenVerifier resolves an opaque credential to a verified user identity.
type TokenVerifier interface {
	ParseUserID(token string) (int64, error)
}

// Handler carries the presence registry, message router, store, and verifier
// shared by the websocket gateway and the chat query endpoints.
type Handler struct {
	Registry *chathub.Registry
	Router   *chathub.Router
	Store    storage.Store
	Auth     TokenVerifier

	IdleTimeout time.Duration
	SendTimeout time.Duration
}

func NewHandler(registry *chathub.Registry, router *chathub.Router, store storage.Store, auth TokenVerifier, idleTimeout, sendTimeout time.Duration) *Handler {
	return &Handler{
		Registry:    registry,
		Router:      router,
		Store:       store,
		Auth:        auth,
		IdleTimeout: idleTimeout,
		SendTimeout: sendTimeout,
	}
}

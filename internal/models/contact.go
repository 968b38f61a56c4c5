package models

import "time"

// ChatContact summarises one correspondent of a user: profile display data,
// the most recent message exchanged, and how many of their messages remain
// unread.
type ChatContact struct {
	ContactUserID   int64     `json:"contactUserId"`
	Nickname        string    `json:"nickname"`
	Avatar          string    `json:"avatar"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}

// OnlineContact wraps a ChatContact with the live presence flag. The flag is
// attached by an explicit conversion at response-build time; it is never
// stored.
type OnlineContact struct {
	ChatContact
	Online bool `json:"online"`
}

// WithOnline converts the contact into its presence-annotated form.
func (c ChatContact) WithOnline(online bool) OnlineContact {
	return OnlineContact{ChatContact: c, Online: online}
}

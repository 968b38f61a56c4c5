package models

import "time"

// Message type codes used by the wire protocol and the chat_messages table.
const (
	MessageTypeText  = 1
	MessageTypeImage = 2
	MessageTypeVoice = 3
)

// Read flags for ChatMessage.IsRead.
const (
	MessageUnread = 0
	MessageRead   = 1
)

// ChatMessage is a persisted chat message in PostgreSQL. The ID is assigned
// by the database on insert and echoed back to the sender in the ack frame.
type ChatMessage struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// FromUserID is always the authenticated sender of the connection the
	// message arrived on, never a value taken from the payload.
	FromUserID int64 `gorm:"not null;index:idx_chat_pair" json:"fromUserId"`
	// ToUserID is the recipient of the message.
	ToUserID int64 `gorm:"not null;index:idx_chat_pair" json:"toUserId"`
	// MessageType is one of MessageTypeText, MessageTypeImage, MessageTypeVoice.
	MessageType int `gorm:"not null;default:1" json:"messageType"`
	// Content is the text body. For media messages it may be empty.
	Content string `gorm:"type:text" json:"content"`
	// MediaURL points at uploaded media for image and voice messages.
	MediaURL string `gorm:"type:text" json:"mediaUrl"`
	// IsRead is MessageUnread until the recipient acknowledges reading.
	IsRead    int       `gorm:"not null;default:0" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidMessageType reports whether t is a known wire message type code.
func ValidMessageType(t int) bool {
	return t == MessageTypeText || t == MessageTypeImage || t == MessageTypeVoice
}

package models

import "time"

// Frame types carried in WireMessage.Type.
const (
	FrameMessage = "message"
	FrameAck     = "ack"
	FrameError   = "error"
)

// KeepaliveFrame is the literal text frame the heartbeat sends to every live
// connection. Clients are not required to answer it; liveness is inferred
// from the transport read deadline.
const KeepaliveFrame = "PING"

// WireTimeLayout is the timestamp format used on outbound frames.
const WireTimeLayout = "2006-01-02 15:04:05"

// InboundMessage is the payload a client sends over the websocket.
type InboundMessage struct {
	// TempID is an optional client-side correlation token, echoed back on the
	// ack or error frame so the client can reconcile its optimistic message.
	TempID      string `json:"tempId"`
	ToUserID    int64  `json:"toUserId"`
	MessageType int    `json:"messageType"` // 1=text 2=image 3=voice
	Content     string `json:"content"`
	MediaURL    string `json:"mediaUrl"`
}

// WireMessage is an outbound frame pushed to a client. Type distinguishes a
// delivered chat message from an ack or error addressed to the sender.
type WireMessage struct {
	ID          int64  `json:"id,omitempty"`
	TempID      string `json:"tempId,omitempty"`
	FromUserID  int64  `json:"fromUserId"`
	ToUserID    int64  `json:"toUserId"`
	MessageType int    `json:"messageType"`
	Content     string `json:"content,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty"`
	Type        string `json:"type"`
	CreatedAt   string `json:"createdAt,omitempty"`

	// Sender display enrichment, attached only on FrameMessage frames.
	FromUserNickname string `json:"fromUserNickname,omitempty"`
	FromUserAvatar   string `json:"fromUserAvatar,omitempty"`
}

// NewMessageFrame builds the frame delivered to the recipient of msg.
func NewMessageFrame(msg *ChatMessage) *WireMessage {
	return &WireMessage{
		ID:          msg.ID,
		FromUserID:  msg.FromUserID,
		ToUserID:    msg.ToUserID,
		MessageType: msg.MessageType,
		Content:     msg.Content,
		MediaURL:    msg.MediaURL,
		Type:        FrameMessage,
		CreatedAt:   msg.CreatedAt.Format(WireTimeLayout),
	}
}

// NewAckFrame builds the reply sent back on the sender's own connection once
// msg has been persisted, correlating tempID with the server-assigned ID.
func NewAckFrame(msg *ChatMessage, tempID string) *WireMessage {
	return &WireMessage{
		ID:          msg.ID,
		TempID:      tempID,
		FromUserID:  msg.FromUserID,
		ToUserID:    msg.ToUserID,
		MessageType: msg.MessageType,
		Type:        FrameAck,
		CreatedAt:   msg.CreatedAt.Format(WireTimeLayout),
	}
}

// NewErrorFrame builds the reply for an inbound message that could not be
// persisted. The message is not delivered; the client may retry with the
// same tempID.
func NewErrorFrame(in *InboundMessage, fromUserID int64) *WireMessage {
	return &WireMessage{
		TempID:      in.TempID,
		FromUserID:  fromUserID,
		ToUserID:    in.ToUserID,
		MessageType: in.MessageType,
		Type:        FrameError,
		CreatedAt:   time.Now().Format(WireTimeLayout),
	}
}

package chathub

import (
	"encoding/json"
	"log"

	"dategogo/backend/internal/models"
	"dategogo/backend/internal/storage"
)

// Router turns a verified sender identity plus a raw inbound payload into a
// durable message and a best-effort live delivery.
type Router struct {
	Registry *Registry
	Store    storage.Store
}

// NewRouter creates the message router.
func NewRouter(registry *Registry, store storage.Store) *Router {
	return &Router{Registry: registry, Store: store}
}

// HandleInbound processes one payload read from fromUserID's connection and
// returns the reply frame to write back on that same connection: an ack once
// the message is persisted, an error frame when persistence fails, or nil
// for malformed input, which is logged and dropped without closing the
// connection.
func (r *Router) HandleInbound(fromUserID int64, raw []byte) *models.WireMessage {
	var in models.InboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		log.Printf("Dropped malformed payload from user %d: %v", fromUserID, err)
		return nil
	}
	if in.ToUserID <= 0 || !models.ValidMessageType(in.MessageType) {
		log.Printf("Dropped invalid payload from user %d (to=%d type=%d)", fromUserID, in.ToUserID, in.MessageType)
		return nil
	}

	// The sender identity comes from the authenticated connection; anything
	// the payload claims about it is ignored.
	msg := &models.ChatMessage{
		FromUserID:  fromUserID,
		ToUserID:    in.ToUserID,
		MessageType: in.MessageType,
		Content:     in.Content,
		MediaURL:    in.MediaURL,
		IsRead:      models.MessageUnread,
	}

	if err := r.Store.SaveMessage(msg); err != nil {
		return models.NewErrorFrame(&in, fromUserID)
	}

	r.deliver(msg)

	// The ack goes back regardless of whether the recipient was reachable;
	// an offline recipient simply finds the message in history later.
	return models.NewAckFrame(msg, in.TempID)
}

// deliver pushes the persisted message to the recipient's live connection if
// one is registered and open. Failures are logged, never retried, and never
// undo persistence.
func (r *Router) deliver(msg *models.ChatMessage) {
	recipient, ok := r.Registry.Lookup(msg.ToUserID)
	if !ok || !recipient.IsOpen() {
		return
	}

	frame := models.NewMessageFrame(msg)
	profile, err := r.Store.GetUserProfile(msg.FromUserID)
	if err != nil {
		log.Printf("WARNING: Failed to load sender profile %d: %v", msg.FromUserID, err)
	} else if profile != nil {
		frame.FromUserNickname = profile.Nickname
		frame.FromUserAvatar = profile.Avatar
	}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("ERROR: Failed to encode message %d: %v", msg.ID, err)
		return
	}
	if err := recipient.Enqueue(data); err != nil {
		log.Printf("WARNING: Failed to deliver message %d to user %d: %v", msg.ID, msg.ToUserID, err)
	}
}

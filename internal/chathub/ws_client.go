package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"dategogo/backend/internal/storage"

	"github.com/gorilla/websocket"
)

const (
	// maxMessageSize bounds inbound frames; anything larger kills the read.
	maxMessageSize = 4096
	// sendBufferSize is the outbound queue depth per connection.
	sendBufferSize = 256
)

// WebSocketClient implements Client over a gorilla/websocket connection.
// Its lifecycle is Connecting (handshake) -> Open (Run) -> Closed; any of a
// read error, idle timeout, heartbeat eviction, or replacement closes it,
// and no transition leaves Closed.
type WebSocketClient struct {
	userID   int64
	conn     *websocket.Conn
	registry *Registry
	router   *Router
	store    storage.Store

	idleTimeout time.Duration
	sendTimeout time.Duration

	send      chan []byte
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewWebSocketClient wires a freshly upgraded connection to the hub. The
// caller registers it and then calls Run.
func NewWebSocketClient(userID int64, conn *websocket.Conn, registry *Registry, router *Router, store storage.Store, idleTimeout, sendTimeout time.Duration) *WebSocketClient {
	return &WebSocketClient{
		userID:      userID,
		conn:        conn,
		registry:    registry,
		router:      router,
		store:       store,
		idleTimeout: idleTimeout,
		sendTimeout: sendTimeout,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
	}
}

func (c *WebSocketClient) UserID() int64 { return c.userID }

func (c *WebSocketClient) IsOpen() bool { return !c.closed.Load() }

// Enqueue queues one text frame for the write pump. It never blocks: a
// stalled or closed client yields an error instead of stalling the caller.
func (c *WebSocketClient) Enqueue(frame []byte) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendBufferFull
	}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close marks the client closed and tears down the transport. The closed
// flag flips before anything else so concurrent Enqueue and registry checks
// observe the session as gone immediately.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		c.conn.Close()
	})
}

// readPump reads inbound frames until the connection dies or stays silent
// past the idle timeout, handing each payload to the router and writing the
// router's ack/error reply back on this same connection.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Only clear presence state if we are still the registered session;
		// a replacing connection may already have taken our slot.
		if c.registry.UnregisterClient(c.userID, c) {
			if err := c.store.SetUserOffline(c.userID); err != nil {
				log.Printf("WARNING: Failed to clear presence for user %d: %v", c.userID, err)
			}
			log.Printf("User %d disconnected", c.userID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message from user %d: %v", c.userID, err)
			}
			return
		}

		// Any inbound traffic counts as activity.
		c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))

		reply := c.router.HandleInbound(c.userID, data)
		if reply == nil {
			continue
		}

		frame, err := json.Marshal(reply)
		if err != nil {
			log.Printf("ERROR: Failed to encode reply for user %d: %v", c.userID, err)
			continue
		}
		if err := c.Enqueue(frame); err != nil {
			log.Printf("WARNING: Dropped %s reply for user %d: %v", reply.Type, c.userID, err)
		}
	}
}

// writePump drains the send queue onto the socket, bounding every write by
// the send timeout so a stalled peer cannot wedge the pump.
func (c *WebSocketClient) writePump() {
	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.sendTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("error writing to user %d: %v", c.userID, err)
				c.Close()
				return
			}
		case <-c.done:
			// Best effort close frame; the transport is going away regardless.
			c.conn.SetWriteDeadline(time.Now().Add(c.sendTimeout))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

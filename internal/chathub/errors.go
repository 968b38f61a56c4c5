package chathub

import "errors"

var (
	// ErrClientClosed is returned by Enqueue once the connection is closed.
	ErrClientClosed = errors.New("chathub: client closed")

	// ErrSendBufferFull is returned by Enqueue when the client's outbound
	// queue is full. The frame is dropped; a stalled client must not stall
	// the router or the heartbeat.
	ErrSendBufferFull = errors.New("chathub: send buffer full")
)

package chathub

// Client is the handle to one live bidirectional connection. It abstracts the
// underlying transport so the registry, router, and heartbeat can manage
// connections uniformly.
type Client interface {
	// UserID returns the verified identity bound to this connection.
	UserID() int64
	// IsOpen reports whether the connection has not yet been closed by either side.
	IsOpen() bool
	// Enqueue hands a text frame to the client's outbound queue without blocking.
	// It returns ErrClientClosed after Close, or ErrSendBufferFull when the
	// client is too slow to drain its queue.
	Enqueue(frame []byte) error
	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the connection. Safe to call more than once and from
	// any goroutine.
	Close()
}

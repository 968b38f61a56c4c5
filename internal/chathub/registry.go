package chathub

import "sync"

// Registry tracks who is online: one live client per user identity.
// Process-local; rebuilt empty on restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]Client)}
}

// Register installs client as the single session for its user and returns
// whatever session it replaced, if any. The caller closes the returned client.
func (r *Registry) Register(userID int64, client Client) Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sessions[userID]
	r.sessions[userID] = client
	return prev
}

// Unregister removes the user's session unconditionally. No-op if absent.
func (r *Registry) Unregister(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// UnregisterClient removes the user's session only if it is still this exact
// client. A connection tearing down after being replaced must not evict the
// newer session that took its place.
func (r *Registry) UnregisterClient(userID int64, client Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[userID]
	if !ok || current != client {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// Lookup returns the user's live client, if registered.
func (r *Registry) Lookup(userID int64) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.sessions[userID]
	return client, ok
}

// Snapshot returns a copy of the current sessions, safe to iterate while
// registrations and evictions continue elsewhere.
func (r *Registry) Snapshot() map[int64]Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[int64]Client, len(r.sessions))
	for userID, client := range r.sessions {
		snapshot[userID] = client
	}
	return snapshot
}

// OnlineCount counts sessions whose connection is still open.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, client := range r.sessions {
		if client.IsOpen() {
			count++
		}
	}
	return count
}

// IsOnline reports whether the user has a registered, open session.
func (r *Registry) IsOnline(userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.sessions[userID]
	return ok && client.IsOpen()
}

// FilterOnline returns the subsequence of userIDs that are currently online,
// preserving input order.
func (r *Registry) FilterOnline(userIDs []int64) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	online := make([]int64, 0, len(userIDs))
	for _, userID := range userIDs {
		if client, ok := r.sessions[userID]; ok && client.IsOpen() {
			online = append(online, userID)
		}
	}
	return online
}

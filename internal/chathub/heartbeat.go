package chathub

import (
	"context"
	"log"
	"time"

	"dategogo/backend/internal/models"
	"dategogo/backend/internal/storage"
)

// Heartbeat periodically probes every registered connection, evicting the
// ones that died without a clean close. It is the only mechanism that
// reclaims sessions lost to a network partition; silent-but-healthy clients
// are instead closed by the transport idle timeout and flow through the
// normal close path.
type Heartbeat struct {
	Registry *Registry
	Store    storage.Store
	Interval time.Duration
}

// NewHeartbeat creates the monitor. It does nothing until Run is called.
func NewHeartbeat(registry *Registry, store storage.Store, interval time.Duration) *Heartbeat {
	return &Heartbeat{Registry: registry, Store: store, Interval: interval}
}

// Run sweeps the registry every Interval until ctx is cancelled. It is
// started once at process start, alongside the HTTP server.
func (h *Heartbeat) Run(ctx context.Context) {
	log.Printf("Heartbeat monitor started (interval %s)", h.Interval)
	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Heartbeat monitor stopped")
			return
		case <-ticker.C:
			h.Sweep()
		}
	}
}

// Sweep probes one snapshot of the registry. Every open connection gets a
// keepalive frame and its Redis presence TTL refreshed; closed connections
// and connections that refuse the keepalive are evicted. A failure on one
// session never interrupts the rest of the sweep.
func (h *Heartbeat) Sweep() {
	for userID, client := range h.Registry.Snapshot() {
		if !client.IsOpen() {
			h.evict(userID, client)
			continue
		}
		if err := client.Enqueue([]byte(models.KeepaliveFrame)); err != nil {
			log.Printf("Heartbeat failed for user %d: %v", userID, err)
			h.evict(userID, client)
			continue
		}
		if err := h.Store.RefreshUserOnline(userID); err != nil {
			log.Printf("WARNING: Failed to refresh presence for user %d: %v", userID, err)
		}
	}
}

func (h *Heartbeat) evict(userID int64, client Client) {
	client.Close()
	if h.Registry.UnregisterClient(userID, client) {
		if err := h.Store.SetUserOffline(userID); err != nil {
			log.Printf("WARNING: Failed to clear presence for user %d: %v", userID, err)
		}
		log.Printf("Evicted dead session for user %d", userID)
	}
}

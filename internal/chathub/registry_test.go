package chathub_test

import (
	"fmt"
	"sync"
	"testing"

	"dategogo/backend/internal/chathub"

	"github.com/stretchr/testify/assert"
)

// TestRegistry_RegisterReturnsReplaced verifies that a second connection for
// the same identity replaces the first and hands it back for closing, leaving
// the open-session count unchanged.
func TestRegistry_RegisterReturnsReplaced(t *testing.T) {
	registry := chathub.NewRegistry()
	first := newMockClient(1)
	second := newMockClient(1)

	prev := registry.Register(1, first)
	assert.Nil(t, prev, "first registration replaces nothing")
	assert.Equal(t, 1, registry.OnlineCount())

	prev = registry.Register(1, second)
	assert.Same(t, first, prev, "replaced client must be returned to the caller")
	assert.Equal(t, 1, registry.OnlineCount(), "replace must not append a duplicate session")

	current, ok := registry.Lookup(1)
	assert.True(t, ok)
	assert.Same(t, second, current)
}

// TestRegistry_UnregisterClient_IgnoresStale verifies a replaced connection
// cannot evict the session that took its place.
func TestRegistry_UnregisterClient_IgnoresStale(t *testing.T) {
	registry := chathub.NewRegistry()
	old := newMockClient(1)
	replacement := newMockClient(1)

	registry.Register(1, old)
	registry.Register(1, replacement)

	removed := registry.UnregisterClient(1, old)
	assert.False(t, removed, "stale client must not remove the newer session")

	current, ok := registry.Lookup(1)
	assert.True(t, ok)
	assert.Same(t, replacement, current)

	removed = registry.UnregisterClient(1, replacement)
	assert.True(t, removed)
	_, ok = registry.Lookup(1)
	assert.False(t, ok)
}

func TestRegistry_UnregisterAbsentIsNoop(t *testing.T) {
	registry := chathub.NewRegistry()
	registry.Unregister(42)
	assert.False(t, registry.UnregisterClient(42, newMockClient(42)))
}

// TestRegistry_OnlineCountSkipsClosed verifies closed-but-not-yet-evicted
// entries are not counted as online.
func TestRegistry_OnlineCountSkipsClosed(t *testing.T) {
	registry := chathub.NewRegistry()
	alive := newMockClient(1)
	dead := newMockClient(2)
	registry.Register(1, alive)
	registry.Register(2, dead)

	dead.Close()

	assert.Equal(t, 1, registry.OnlineCount())
	assert.True(t, registry.IsOnline(1))
	assert.False(t, registry.IsOnline(2), "closed session is not online even while registered")
}

func TestRegistry_FilterOnline(t *testing.T) {
	registry := chathub.NewRegistry()
	registry.Register(1, newMockClient(1))
	closed := newMockClient(3)
	registry.Register(3, closed)
	closed.Close()

	online := registry.FilterOnline([]int64{1, 2, 3, 4})

	assert.Equal(t, []int64{1}, online)
}

// TestRegistry_SnapshotIsIsolated verifies a snapshot is unaffected by
// mutations that happen after it was taken.
func TestRegistry_SnapshotIsIsolated(t *testing.T) {
	registry := chathub.NewRegistry()
	registry.Register(1, newMockClient(1))
	registry.Register(2, newMockClient(2))

	snapshot := registry.Snapshot()
	registry.Unregister(1)
	registry.Register(3, newMockClient(3))

	assert.Len(t, snapshot, 2)
	assert.Contains(t, snapshot, int64(1))
	assert.NotContains(t, snapshot, int64(3))
}

// TestRegistry_ConcurrentChurn hammers the registry from many goroutines to
// catch torn reads under the race detector. Each identity keeps at most one
// session throughout.
func TestRegistry_ConcurrentChurn(t *testing.T) {
	registry := chathub.NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				userID := int64(j % 10)
				client := newMockClient(userID)
				if prev := registry.Register(userID, client); prev != nil {
					prev.Close()
				}
				registry.Lookup(userID)
				registry.IsOnline(userID)
				for range registry.Snapshot() {
				}
				registry.UnregisterClient(userID, client)
			}
		}(i)
	}
	wg.Wait()

	for userID, client := range registry.Snapshot() {
		assert.Equal(t, userID, client.UserID(), fmt.Sprintf("entry for user %d maps to wrong client", userID))
	}
}

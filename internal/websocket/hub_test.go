package websocket

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-alert-be/internal/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "ws.log")))
	go hub.Run()
	return hub
}

func waitForSessions(t *testing.T, hub *Hub, want ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		ids := hub.SessionIds()
		if len(ids) != len(want) {
			return false
		}
		for _, w := range want {
			found := false
			for _, id := range ids {
				if id == w {
					found = true
				}
			}
			if !found {
				return false
			}
		}
		return true
	}, time.Second, 10*time.Millisecond)
}

func TestRebindMovesClientToNewSession(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{Hub: hub, SessionId: "s1", Send: make(chan []byte, 4)}
	client.Activate()
	waitForSessions(t, hub, "s1")

	client.SessionId = "s2"
	hub.Rebind(client, "s1")

	assert.Equal(t, []string{"s2"}, hub.SessionIds())

	// Events for the new session reach the connection, old-session events
	// no longer do.
	hub.Send("s2", "alerts-updated", nil)
	require.Len(t, client.Send, 1)
	<-client.Send

	hub.Send("s1", "alerts-updated", nil)
	assert.Empty(t, client.Send)
}

func TestRebindLeavesNoStaleSlotOnDisconnect(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{Hub: hub, SessionId: "s1", Send: make(chan []byte, 4)}
	client.Activate()
	waitForSessions(t, hub, "s1")

	client.SessionId = "s2"
	hub.Rebind(client, "s1")

	hub.unregister <- client
	waitForSessions(t, hub)

	// The Send channel was closed by the unregister path.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestRebindKeepsSiblingConnections(t *testing.T) {
	hub := newTestHub(t)

	a := &Client{Hub: hub, SessionId: "s1", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, SessionId: "s1", Send: make(chan []byte, 4)}
	a.Activate()
	b.Activate()
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients["s1"]) == 2
	}, time.Second, 10*time.Millisecond)

	b.SessionId = "s2"
	hub.Rebind(b, "s1")
	waitForSessions(t, hub, "s1", "s2")

	hub.Send("s1", "alerts-updated", nil)
	assert.Len(t, a.Send, 1)
	assert.Empty(t, b.Send)
}

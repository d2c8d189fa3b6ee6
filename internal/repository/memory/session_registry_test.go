package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	registry := NewSessionRegistry()

	first := registry.GetOrCreate("s1")
	first.CloseAlert("a1")

	second := registry.GetOrCreate("s1")
	assert.Same(t, first, second)
	assert.True(t, second.IsClosed("a1"))
}

func TestGetMissingSession(t *testing.T) {
	registry := NewSessionRegistry()

	_, found := registry.Get("never-seen")
	assert.False(t, found)
}

func TestDeleteForgetsSession(t *testing.T) {
	registry := NewSessionRegistry()

	registry.GetOrCreate("s1")
	registry.Delete("s1")

	_, found := registry.Get("s1")
	assert.False(t, found)
}

func TestStatsCountsSessionsAndClosedAlerts(t *testing.T) {
	registry := NewSessionRegistry()

	a := registry.GetOrCreate("s1")
	a.CloseAlert("a1")
	a.CloseAlert("a2")
	registry.Save(a)

	b := registry.GetOrCreate("s2")
	b.CloseAlert("a3")
	registry.Save(b)

	stats := registry.Stats()
	require.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, 3, stats.TotalClosedAlerts)
}

// Stats reads live sessions while intent handlers mutate them; the session
// mutex keeps both sides safe under the race detector.
func TestStatsConcurrentWithCloses(t *testing.T) {
	registry := NewSessionRegistry()
	session := registry.GetOrCreate("s1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			session.CloseAlert(fmt.Sprintf("a%d", i))
		}
	}()

	for i := 0; i < 1000; i++ {
		registry.Stats()
	}
	<-done

	assert.Equal(t, 1000, registry.Stats().TotalClosedAlerts)
}

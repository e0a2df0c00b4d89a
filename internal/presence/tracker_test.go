package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(window, cooldown time.Duration) (*Tracker, *time.Time) {
	tr := NewTracker(window, cooldown)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }
	tr.cleanupRoll = func() float64 { return 1.0 } // no random sweeps
	return tr, &now
}

func TestTrackerRecentSpeakers(t *testing.T) {
	tr, now := newTestTracker(2*time.Minute, 20*time.Second)

	tr.Touch("ch", "alice", "m1", "hello")
	*now = now.Add(30 * time.Second)
	tr.Touch("ch", "bob", "m2", "hi")

	speakers := tr.RecentSpeakers("ch", 2*time.Minute)
	assert.Len(t, speakers, 2)

	*now = now.Add(100 * time.Second)
	speakers = tr.RecentSpeakers("ch", 2*time.Minute)
	require.Len(t, speakers, 1)
	assert.Contains(t, speakers, "bob")
}

func TestTrackerLatestMessage(t *testing.T) {
	tr, _ := newTestTracker(2*time.Minute, 20*time.Second)

	tr.Touch("ch", "alice", "m1", "first")
	tr.Touch("ch", "alice", "m2", "second")

	msg, ok := tr.LatestMessage("ch", "alice")
	require.True(t, ok)
	assert.Equal(t, "m2", msg.MessageID)
	assert.Equal(t, "second", msg.Content)

	_, ok = tr.LatestMessage("ch", "nobody")
	assert.False(t, ok)
}

func TestTrackerSweep(t *testing.T) {
	tr, now := newTestTracker(2*time.Minute, 20*time.Second)
	tr.cleanupRoll = func() float64 { return 0.0 } // sweep on every write

	tr.Touch("ch", "alice", "m1", "hello")
	*now = now.Add(3 * time.Minute)
	tr.Touch("other", "bob", "m2", "hi")

	assert.Empty(t, tr.RecentSpeakers("ch", 2*time.Minute))
	_, ok := tr.LatestMessage("ch", "alice")
	assert.False(t, ok, "swept channels drop their message cache")
}

func TestTrackerSoleActive(t *testing.T) {
	tr, now := newTestTracker(2*time.Minute, 20*time.Second)

	t.Run("empty channel counts as sole", func(t *testing.T) {
		assert.True(t, tr.SoleActive("ch", "alice"))
	})

	tr.Touch("ch", "alice", "m1", "hello")
	t.Run("only speaker is sole", func(t *testing.T) {
		assert.True(t, tr.SoleActive("ch", "alice"))
	})

	tr.Touch("ch", "bob", "m2", "hi")
	t.Run("two speakers, nobody is sole", func(t *testing.T) {
		assert.False(t, tr.SoleActive("ch", "alice"))
		assert.False(t, tr.SoleActive("ch", "bob"))
	})

	*now = now.Add(3 * time.Minute)
	t.Run("window expiry restores sole status", func(t *testing.T) {
		tr.Touch("ch", "alice", "m3", "still here")
		assert.True(t, tr.SoleActive("ch", "alice"))
	})
}

func TestTrackerCooldown(t *testing.T) {
	tr, now := newTestTracker(2*time.Minute, 20*time.Second)

	assert.False(t, tr.OnCooldown("alice"))

	tr.MarkResponded("alice")
	assert.True(t, tr.OnCooldown("alice"))
	assert.False(t, tr.OnCooldown("bob"))

	*now = now.Add(21 * time.Second)
	assert.False(t, tr.OnCooldown("alice"))
}

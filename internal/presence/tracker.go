// Package presence tracks who spoke recently in each channel and when the
// bot last answered each user. Everything here is advisory, in-memory and
// lost on restart — a stale read only shifts probabilities.
package presence

import (
	"math/rand"
	"sync"
	"time"
)

// SeenMessage is the last message kept per user per channel, so the
// admission engine can redirect a reply to a better candidate's most
// recent message.
type SeenMessage struct {
	MessageID string
	UserID    string
	Content   string
	At        time.Time
}

// Tracker holds the per-channel activity window and the per-user response
// cooldown table.
type Tracker struct {
	mu       sync.Mutex
	window   time.Duration
	cooldown time.Duration

	active        map[string]map[string]time.Time  // channelID -> userID -> last seen
	latest        map[string]map[string]SeenMessage // channelID -> userID -> last message
	lastResponded map[string]time.Time             // userID -> last bot reply

	now         func() time.Time
	cleanupRoll func() float64
}

// NewTracker creates a tracker with the given activity window and reply
// cooldown.
func NewTracker(window, cooldown time.Duration) *Tracker {
	return &Tracker{
		window:        window,
		cooldown:      cooldown,
		active:        make(map[string]map[string]time.Time),
		latest:        make(map[string]map[string]SeenMessage),
		lastResponded: make(map[string]time.Time),
		now:           time.Now,
		cleanupRoll:   rand.Float64,
	}
}

// Touch records that userID spoke in channelID. Expired entries are swept
// lazily on a fraction of writes to keep the hot path cheap.
func (t *Tracker) Touch(channelID, userID, messageID, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := t.active[channelID]
	if users == nil {
		users = make(map[string]time.Time)
		t.active[channelID] = users
	}
	now := t.now()
	users[userID] = now

	msgs := t.latest[channelID]
	if msgs == nil {
		msgs = make(map[string]SeenMessage)
		t.latest[channelID] = msgs
	}
	msgs[userID] = SeenMessage{MessageID: messageID, UserID: userID, Content: content, At: now}

	if t.cleanupRoll() < 0.1 {
		t.sweepLocked()
	}
}

// LatestMessage returns the most recent message seen from userID in the
// channel, if any.
func (t *Tracker) LatestMessage(channelID, userID string) (SeenMessage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.latest[channelID][userID]
	return msg, ok
}

// sweepLocked drops entries older than the window and empty channels.
func (t *Tracker) sweepLocked() {
	cutoff := t.now().Add(-t.window)
	for channelID, users := range t.active {
		for userID, seen := range users {
			if seen.Before(cutoff) {
				delete(users, userID)
				delete(t.latest[channelID], userID)
			}
		}
		if len(users) == 0 {
			delete(t.active, channelID)
			delete(t.latest, channelID)
		}
	}
}

// SoleActive reports whether userID is the only participant seen in the
// channel within the window. True also when the window is empty — a lone
// user must never be starved by their own earlier message.
func (t *Tracker) SoleActive(channelID, userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.window)
	count := 0
	present := false
	for id, seen := range t.active[channelID] {
		if seen.Before(cutoff) {
			continue
		}
		count++
		if id == userID {
			present = true
		}
	}
	return count <= 1 && (count == 0 || present)
}

// RecentSpeakers returns users seen in the channel within the given span,
// with their last-seen times.
func (t *Tracker) RecentSpeakers(channelID string, within time.Duration) map[string]time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-within)
	out := make(map[string]time.Time)
	for id, seen := range t.active[channelID] {
		if !seen.Before(cutoff) {
			out[id] = seen
		}
	}
	return out
}

// OnCooldown reports whether the bot answered userID within the cooldown
// span.
func (t *Tracker) OnCooldown(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.lastResponded[userID]
	return ok && t.now().Sub(last) < t.cooldown
}

// MarkResponded stamps userID as just answered.
func (t *Tracker) MarkResponded(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastResponded[userID] = t.now()
}

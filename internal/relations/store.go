// Package relations keeps the per-user reputation ledger that steers
// response admission and tone. Reputation is bounded, interactions only
// grow, and records are created lazily on first contact.
package relations

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"server-muse/internal/storage"
	"server-muse/pkg/retrylimit"
)

// Reputation bounds. Symmetric so admin adjustments cannot overflow tiers.
const (
	MaxReputation = 1_000_000
	MinReputation = -1_000_000
)

// ErrStoreUnavailable signals that durable persistence is unreachable.
// Callers degrade to cached or zero-value records instead of failing the
// message.
var ErrStoreUnavailable = errors.New("relations store unavailable")

// Persister is the durable backend. Satisfied by *storage.Storage.
type Persister interface {
	LoadUsers() (map[string]storage.UserRecord, error)
	SaveUser(storage.UserRecord) error
}

// Store is the in-memory ledger with write-through persistence. A single
// lock serializes mutations; contention is low (one update per admitted
// message) and aggregate reads share the read side.
type Store struct {
	mu      sync.RWMutex
	users   map[string]storage.UserRecord
	persist Persister
	now     func() time.Time
}

// NewStore loads the ledger from the persister. A failed load is logged
// and the store starts empty — reputation merely restarts from zero rather
// than blocking the bot.
func NewStore(p Persister) *Store {
	s := &Store{
		users:   make(map[string]storage.UserRecord),
		persist: p,
		now:     time.Now,
	}
	if p == nil {
		return s
	}
	if err := withStoreRetry(func() error {
		users, err := p.LoadUsers()
		if err != nil {
			return err
		}
		s.users = users
		return nil
	}); err != nil {
		log.Printf("[WARN] Relations load failed, starting empty: %v", err)
	}
	if s.users == nil {
		s.users = make(map[string]storage.UserRecord)
	}
	return s
}

// Get returns the record for userID, creating a zero record on first
// contact. Concurrent first reads for the same id create exactly one
// record.
func (s *Store) Get(userID string) storage.UserRecord {
	s.mu.RLock()
	rec, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok = s.users[userID]; ok {
		return rec
	}
	rec = storage.UserRecord{UserID: userID}
	s.users[userID] = rec
	return rec
}

// Adjust applies a clamped reputation delta, counts the interaction and
// persists the record. The write lock covers both the in-memory update and
// the persist call, so two adjusts for the same user reach disk in the
// order they were applied — a later write can never carry a stale record.
// Contention is low (one update per admitted message), so holding the lock
// across the write is fine. A persistence failure drops the write to disk
// but keeps the in-memory update, so the reply still goes out.
func (s *Store) Adjust(userID string, delta int) storage.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.users[userID]
	rec.UserID = userID
	rec.Reputation = clampRep(rec.Reputation + delta)
	rec.Interactions++
	rec.LastInteraction = s.now().UTC()
	s.users[userID] = rec

	if s.persist != nil {
		if err := withStoreRetry(func() error { return s.persist.SaveUser(rec) }); err != nil {
			log.Printf("[WARN] Relations write dropped for user %s: %v (%v)",
				userID, err, ErrStoreUnavailable)
		}
	}
	return rec
}

// MaxReputation returns the highest reputation across all users, or 10
// when the ledger is empty so dynamic thresholds stay sane.
func (s *Store) MaxReputation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxRep := 0
	seen := false
	for _, rec := range s.users {
		if !seen || rec.Reputation > maxRep {
			maxRep = rec.Reputation
			seen = true
		}
	}
	if !seen {
		return 10
	}
	return maxRep
}

// MinActiveReputation returns the lowest reputation among users with more
// than minInteractions, or 0 when no user qualifies. Used for the
// disgrace side of tone thresholds.
func (s *Store) MinActiveReputation(minInteractions int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	minRep := 0
	seen := false
	for _, rec := range s.users {
		if rec.Interactions <= minInteractions {
			continue
		}
		if !seen || rec.Reputation < minRep {
			minRep = rec.Reputation
			seen = true
		}
	}
	return minRep
}

// AverageReputation averages reputation over users with more than
// minInteractions. Returns 0 when no user qualifies.
func (s *Store) AverageReputation(minInteractions int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum, n int
	for _, rec := range s.users {
		if rec.Interactions > minInteractions {
			sum += rec.Reputation
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func clampRep(rep int) int {
	if rep > MaxReputation {
		return MaxReputation
	}
	if rep < MinReputation {
		return MinReputation
	}
	return rep
}

// withStoreRetry wraps storage I/O in a short jittered backoff. Three
// attempts, then the caller degrades.
func withStoreRetry(fn func() error) error {
	cfg := retrylimit.Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
	return retrylimit.Do(context.Background(), fn, nil, cfg)
}

package relations

import (
	"errors"
	"sync"
	"testing"

	"server-muse/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	mu      sync.Mutex
	users   map[string]storage.UserRecord
	loadErr error
	saveErr error
	saves   int
}

func newMemPersister() *memPersister {
	return &memPersister{users: make(map[string]storage.UserRecord)}
}

func (m *memPersister) LoadUsers() (map[string]storage.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]storage.UserRecord, len(m.users))
	for k, v := range m.users {
		out[k] = v
	}
	return out, nil
}

func (m *memPersister) SaveUser(rec storage.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users[rec.UserID] = rec
	return nil
}

func TestStoreLazyCreate(t *testing.T) {
	s := NewStore(newMemPersister())

	rec := s.Get("newcomer")
	assert.Equal(t, "newcomer", rec.UserID)
	assert.Zero(t, rec.Reputation)
	assert.Zero(t, rec.Interactions)
}

func TestStoreAdjust(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)

	rec := s.Adjust("user-1", 3)
	assert.Equal(t, 3, rec.Reputation)
	assert.Equal(t, 1, rec.Interactions)
	assert.False(t, rec.LastInteraction.IsZero())

	rec = s.Adjust("user-1", -5)
	assert.Equal(t, -2, rec.Reputation)
	assert.Equal(t, 2, rec.Interactions)

	// zero delta still counts the interaction
	rec = s.Adjust("user-1", 0)
	assert.Equal(t, -2, rec.Reputation)
	assert.Equal(t, 3, rec.Interactions)

	saved, err := p.LoadUsers()
	require.NoError(t, err)
	assert.Equal(t, rec, saved["user-1"])
}

func TestStoreClamping(t *testing.T) {
	s := NewStore(nil)

	s.Adjust("hero", MaxReputation)
	rec := s.Adjust("hero", 10)
	assert.Equal(t, MaxReputation, rec.Reputation)

	s.Adjust("villain", MinReputation)
	rec = s.Adjust("villain", -10)
	assert.Equal(t, MinReputation, rec.Reputation)
}

func TestStoreLoadsExisting(t *testing.T) {
	p := newMemPersister()
	p.users["veteran"] = storage.UserRecord{UserID: "veteran", Reputation: 42, Interactions: 100}

	s := NewStore(p)
	assert.Equal(t, 42, s.Get("veteran").Reputation)
}

func TestStoreSurvivesLoadFailure(t *testing.T) {
	p := newMemPersister()
	p.loadErr = errors.New("disk on fire")

	s := NewStore(p)
	rec := s.Get("anyone")
	assert.Zero(t, rec.Reputation)
}

func TestStoreKeepsMemoryOnSaveFailure(t *testing.T) {
	p := newMemPersister()
	p.saveErr = errors.New("disk full")

	s := NewStore(p)
	rec := s.Adjust("user-1", 5)
	assert.Equal(t, 5, rec.Reputation)
	assert.Equal(t, 5, s.Get("user-1").Reputation)
}

func TestStoreAggregates(t *testing.T) {
	s := NewStore(nil)

	t.Run("empty ledger defaults", func(t *testing.T) {
		assert.Equal(t, 10, s.MaxReputation())
		assert.Zero(t, s.MinActiveReputation(5))
		assert.Zero(t, s.AverageReputation(5))
	})

	seed := map[string]struct {
		rep, inter int
	}{
		"a": {50, 20},
		"b": {10, 10},
		"c": {-20, 8},
		"d": {999, 2}, // too few interactions for active aggregates
	}
	for id, v := range seed {
		for i := 0; i < v.inter-1; i++ {
			s.Adjust(id, 0)
		}
		s.Adjust(id, v.rep)
	}

	t.Run("max covers everyone", func(t *testing.T) {
		assert.Equal(t, 999, s.MaxReputation())
	})

	t.Run("active-only min and average", func(t *testing.T) {
		assert.Equal(t, -20, s.MinActiveReputation(5))
		assert.InDelta(t, (50.0+10.0-20.0)/3.0, s.AverageReputation(5), 1e-9)
	})
}

func TestStoreConcurrentAdjust(t *testing.T) {
	s := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Adjust("busy", 1)
		}()
	}
	wg.Wait()

	rec := s.Get("busy")
	assert.Equal(t, 50, rec.Reputation)
	assert.Equal(t, 50, rec.Interactions)
}

func TestStoreConcurrentAdjustPersistsFinalRecord(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Adjust("busy", 1)
		}()
	}
	wg.Wait()

	// Each adjust persists before the next one starts, so the durable
	// record can never regress behind the in-memory ledger.
	saved, err := p.LoadUsers()
	require.NoError(t, err)
	assert.Equal(t, 25, saved["busy"].Reputation)
	assert.Equal(t, 25, saved["busy"].Interactions)
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	store, err := New(ctx, filepath.Join(t.TempDir(), "storage_test.json"))
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = store.Close()
	})
	return store
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStorage(t)

	rec := UserRecord{
		UserID:          "user-1",
		Reputation:      7,
		Interactions:    3,
		LastInteraction: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveUser(rec))

	users, err := store.LoadUsers()
	require.NoError(t, err)
	assert.Equal(t, rec, users["user-1"])
}

func TestConcurrentUserUpserts(t *testing.T) {
	store := newTestStorage(t)

	const users = 20
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rec := UserRecord{UserID: fmt.Sprintf("user-%d", n), Reputation: n}
			assert.NoError(t, store.SaveUser(rec))
		}(i)
	}
	wg.Wait()

	// Every upsert must survive: a concurrent writer rebuilding the table
	// from a stale snapshot would silently drop records.
	loaded, err := store.LoadUsers()
	require.NoError(t, err)
	require.Len(t, loaded, users)
	for i := 0; i < users; i++ {
		assert.Equal(t, i, loaded[fmt.Sprintf("user-%d", i)].Reputation)
	}
}

func TestGuildSettingsDefaults(t *testing.T) {
	store := newTestStorage(t)

	settings := store.GuildSettings("unknown-guild")
	assert.Equal(t, DefaultScopeSettings(), settings)
}

func TestSetMatureResetsLevelOnDisable(t *testing.T) {
	store := newTestStorage(t)

	store.SetMature("g1", true, 3)
	settings := store.GuildSettings("g1")
	assert.True(t, settings.MatureEnabled)
	assert.Equal(t, 3, settings.MatureLevel)

	store.SetMature("g1", false, 3)
	settings = store.GuildSettings("g1")
	assert.False(t, settings.MatureEnabled)
	assert.Equal(t, 1, settings.MatureLevel)
}

func TestSetMatureClampsLevel(t *testing.T) {
	store := newTestStorage(t)

	store.SetMature("g1", true, 9)
	assert.Equal(t, 1, store.GuildSettings("g1").MatureLevel)
}

func TestGuildTogglesAreIndependent(t *testing.T) {
	store := newTestStorage(t)

	store.SetGuildActive("g1", false)
	store.SetFilterEnabled("g1", false)

	settings := store.GuildSettings("g1")
	assert.False(t, settings.Active)
	assert.False(t, settings.FilterEnabled)

	other := store.GuildSettings("g2")
	assert.True(t, other.Active)
	assert.True(t, other.FilterEnabled)
}

func TestChannelActivation(t *testing.T) {
	store := newTestStorage(t)

	assert.True(t, store.ChannelActive("ch-1"), "channels default to active")

	store.SetChannelActive("ch-1", false)
	assert.False(t, store.ChannelActive("ch-1"))
	assert.True(t, store.ChannelActive("ch-2"))

	store.SetChannelActive("ch-1", true)
	assert.True(t, store.ChannelActive("ch-1"))
}

func TestPatternSeedAndDetection(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.SeedPatterns(map[string]float64{"trust me": 0.4}))

	// Seeding again never resets accumulated state.
	require.NoError(t, store.RecordDetection("trust me", 0.4))
	require.NoError(t, store.SeedPatterns(map[string]float64{"trust me": 0.4}))

	patterns, err := store.LoadPatterns()
	require.NoError(t, err)
	stats := patterns["trust me"]
	assert.Equal(t, 1, stats.Detections)
	assert.InDelta(t, 0.5, stats.Severity, 1e-9)
	assert.False(t, stats.LastDetected.IsZero())
}

func TestExport(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.SaveUser(UserRecord{UserID: "u1", Reputation: 5}))
	require.NoError(t, store.SaveUser(UserRecord{UserID: "u2", Reputation: -2}))
	store.SetGuildActive("g1", false)
	store.SetChannelActive("ch-1", false)
	require.NoError(t, store.SeedPatterns(map[string]float64{"trust me": 0.4}))

	doc, err := store.Export()
	require.NoError(t, err)

	assert.False(t, doc.ExportedAt.IsZero())
	assert.Equal(t, 2, doc.Tables[keyUsers].RowCount)
	assert.Equal(t, 1, doc.Tables[keyScopes].RowCount)
	assert.Equal(t, 1, doc.Tables[keyChannels].RowCount)
	assert.Equal(t, 1, doc.Tables[keyPatterns].RowCount)
}

func TestExportToFile(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.SaveUser(UserRecord{UserID: "u1"}))

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, store.ExportToFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 1, doc.Tables[keyUsers].RowCount)
}

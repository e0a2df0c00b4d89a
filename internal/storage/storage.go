package storage

import (
	"context"
	"sync"

	"github.com/keshon/datastore"
)

// Storage is the durable state layer: user relations, per-scope settings
// and adaptive detection patterns, all backed by a single JSON datastore
// file with atomic writes and auto-save.
//
// The datastore serializes individual key reads and writes; mu serializes
// this package's read-modify-write table updates so two concurrent upserts
// cannot rebuild a table from stale snapshots of each other.
type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

// Top-level datastore keys. Everything durable lives under one of these.
const (
	keyUsers    = "relations_users"
	keyScopes   = "scope_settings"
	keyChannels = "channel_activation"
	keyPatterns = "manipulation_patterns"
)

// New opens the backing file. ctx bounds the datastore's background save
// goroutine; cancel it on shutdown before Close.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes a final snapshot to disk.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// load reads and decodes the value at key. Returns false when absent; dst
// is left untouched in that case.
func (s *Storage) load(key string, dst any) (bool, error) {
	return s.ds.Get(key, dst)
}

func (s *Storage) put(key string, value any) error {
	return s.ds.Set(key, value)
}

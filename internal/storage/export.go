package storage

import (
	"encoding/json"
	"os"
	"time"
)

// ExportTable is one durable table in an export document.
type ExportTable struct {
	RowCount int `json:"row_count"`
	Rows     any `json:"rows"`
}

// ExportDocument is a point-in-time dump of all durable tables. Each table
// is snapshotted independently; a write landing mid-export may appear in
// one table and not another, which is fine for a diagnostic dump.
type ExportDocument struct {
	ExportedAt time.Time              `json:"exported_at"`
	Source     string                 `json:"source"`
	Tables     map[string]ExportTable `json:"tables"`
}

// Export assembles a dump of every durable table without mutating state.
func (s *Storage) Export() (*ExportDocument, error) {
	users, err := s.LoadUsers()
	if err != nil {
		return nil, err
	}
	patterns, err := s.LoadPatterns()
	if err != nil {
		return nil, err
	}
	scopes := s.loadScopes()
	channels := make(map[string]bool)
	_, _ = s.load(keyChannels, &channels)

	return &ExportDocument{
		ExportedAt: time.Now().UTC(),
		Source:     "server-muse datastore",
		Tables: map[string]ExportTable{
			keyUsers:    {RowCount: len(users), Rows: users},
			keyScopes:   {RowCount: len(scopes), Rows: scopes},
			keyChannels: {RowCount: len(channels), Rows: channels},
			keyPatterns: {RowCount: len(patterns), Rows: patterns},
		},
	}, nil
}

// ExportToFile writes the export document as indented JSON.
func (s *Storage) ExportToFile(path string) error {
	doc, err := s.Export()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

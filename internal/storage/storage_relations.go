package storage

import "time"

// UserRecord is one row of the relations table. Records are created lazily
// on first contact and never deleted by normal operation.
type UserRecord struct {
	UserID          string    `json:"user_id"`
	Reputation      int       `json:"reputation"`
	Interactions    int       `json:"interactions"`
	LastInteraction time.Time `json:"last_interaction"`
}

// LoadUsers returns the full relations table. An absent table is an empty
// map, not an error.
func (s *Storage) LoadUsers() (map[string]UserRecord, error) {
	users := make(map[string]UserRecord)
	if _, err := s.load(keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUser upserts a single user record. The table mutex keeps the
// load-modify-save atomic with respect to other upserts, so a concurrent
// write cannot rebuild the table from a snapshot missing this record.
func (s *Storage) SaveUser(rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[string]UserRecord)
	if _, err := s.load(keyUsers, &users); err != nil {
		return err
	}
	users[rec.UserID] = rec
	return s.put(keyUsers, users)
}

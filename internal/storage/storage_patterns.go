package storage

import "time"

// PatternStats tracks one manipulation pattern. Severity only grows: each
// confirmed detection bumps it, making the detector more sensitive to
// phrases that keep showing up.
type PatternStats struct {
	Pattern      string    `json:"pattern"`
	Severity     float64   `json:"severity"`
	Detections   int       `json:"detection_count"`
	LastDetected time.Time `json:"last_detected"`
}

// LoadPatterns returns the manipulation pattern table keyed by pattern.
func (s *Storage) LoadPatterns() (map[string]PatternStats, error) {
	patterns := make(map[string]PatternStats)
	if _, err := s.load(keyPatterns, &patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

// RecordDetection bumps a pattern's counters, creating the row on first
// sight with the given base severity.
func (s *Storage) RecordDetection(pattern string, baseSeverity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patterns := make(map[string]PatternStats)
	if _, err := s.load(keyPatterns, &patterns); err != nil {
		return err
	}
	stats, ok := patterns[pattern]
	if !ok {
		stats = PatternStats{Pattern: pattern, Severity: baseSeverity}
	}
	stats.Detections++
	stats.Severity += 0.1
	stats.LastDetected = time.Now().UTC()
	patterns[pattern] = stats
	return s.put(keyPatterns, patterns)
}

// SeedPatterns inserts patterns that are not yet present. Existing rows
// keep their accumulated severity.
func (s *Storage) SeedPatterns(seed map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patterns := make(map[string]PatternStats)
	if _, err := s.load(keyPatterns, &patterns); err != nil {
		return err
	}
	changed := false
	for pattern, severity := range seed {
		if _, ok := patterns[pattern]; !ok {
			patterns[pattern] = PatternStats{Pattern: pattern, Severity: severity}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.put(keyPatterns, patterns)
}

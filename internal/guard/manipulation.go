package guard

import (
	"log"
	"strings"

	"server-muse/internal/storage"
)

// Seed patterns for the adaptive manipulation table. Severity grows by 0.1
// on every confirmed detection, so repeat offenders raise the sensitivity
// for everyone.
var manipulationSeed = map[string]float64{
	"you owe me":            0.5,
	"prove you care":        0.5,
	"if you really loved":   0.6,
	"everyone says you":     0.4,
	"you have no choice":    0.6,
	"do this or else":       0.7,
	"nobody will know":      0.5,
	"just this once":        0.3,
	"you promised":          0.3,
	"real friends would":    0.5,
}

// ManipulationDetector matches text against the persisted pattern table
// with reputation-scaled sensitivity: the lower a user's standing, the
// less severity it takes to flag them.
type ManipulationDetector struct {
	store *storage.Storage
}

func NewManipulationDetector(store *storage.Storage) *ManipulationDetector {
	if err := store.SeedPatterns(manipulationSeed); err != nil {
		log.Printf("[WARN] Manipulation pattern seed failed: %v", err)
	}
	return &ManipulationDetector{store: store}
}

// Check returns whether the text is manipulative for a user with the given
// reputation, and the reputation penalty to apply. Confirmed detections
// bump the stored severity.
func (d *ManipulationDetector) Check(text string, reputation int) (bool, int) {
	patterns, err := d.store.LoadPatterns()
	if err != nil {
		log.Printf("[WARN] Manipulation patterns unavailable: %v", err)
		return false, 0
	}

	sensitivity := 2.0 - float64(reputation)/20.0
	if sensitivity < 1.0 {
		sensitivity = 1.0
	}

	lower := strings.ToLower(text)
	for pattern, stats := range patterns {
		if !strings.Contains(lower, pattern) {
			continue
		}
		if stats.Severity*sensitivity < 0.5 {
			continue
		}
		if err := d.store.RecordDetection(pattern, stats.Severity); err != nil {
			log.Printf("[WARN] Manipulation detection not recorded: %v", err)
		}
		penalty := -3
		if reputation < 0 {
			penalty = -5
		}
		return true, penalty
	}
	return false, 0
}

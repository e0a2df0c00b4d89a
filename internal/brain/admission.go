package brain

// Dynamic worthiness thresholds, recomputed per decision from the ledger's
// aggregates so tiers track the community's actual spread.
type worthinessThresholds struct {
	elite float64
	high  float64
	avg   float64
}

func computeWorthiness(maxRep int, avgRep float64) worthinessThresholds {
	t := worthinessThresholds{
		elite: 0.7 * float64(maxRep),
		high:  0.4 * float64(maxRep),
		avg:   avgRep,
	}
	if t.elite < 20 {
		t.elite = 20
	}
	if t.high < 10 {
		t.high = 10
	}
	if t.avg < 0 {
		t.avg = 0
	}
	return t
}

// worthinessProbability maps a reputation onto the admission probability
// for its tier. The fixed floors in computeWorthiness keep small ledgers
// from collapsing every user into the same tier.
func worthinessProbability(reputation int, t worthinessThresholds) float64 {
	rep := float64(reputation)
	switch {
	case rep >= t.elite:
		return 0.95
	case rep >= t.high:
		return 0.80
	case rep >= t.avg:
		return 0.60
	case rep >= 0:
		return 0.40
	case rep >= -10:
		return 0.20
	default:
		return 0.09
	}
}

package persona

// ToneBand is a discrete voice category picked from reputation and
// interaction history. Bands select static prompt text; they never change
// the persona's core identity.
type ToneBand int

const (
	ToneNeutral ToneBand = iota
	ToneAcquainted
	ToneFamiliar
	ToneRespectable
	ToneHigh
	ToneElite
	ToneDisgrace
	ToneExtremeDisgrace
)

func (b ToneBand) String() string {
	switch b {
	case ToneAcquainted:
		return "acquainted"
	case ToneFamiliar:
		return "familiar"
	case ToneRespectable:
		return "respectable"
	case ToneHigh:
		return "high standing"
	case ToneElite:
		return "elite"
	case ToneDisgrace:
		return "disgrace"
	case ToneExtremeDisgrace:
		return "extreme disgrace"
	default:
		return "neutral"
	}
}

// Thresholds are the dynamic reputation cut lines, recomputed from the
// ledger's extremes so bands track the community rather than fixed numbers.
type Thresholds struct {
	Elite           float64
	High            float64
	Respectable     float64
	Disgrace        float64
	ExtremeDisgrace float64
}

// ComputeThresholds derives tone thresholds from the highest reputation
// and the lowest reputation among established users.
func ComputeThresholds(maxRep, minRep int) Thresholds {
	t := Thresholds{
		Elite:           0.7 * float64(maxRep),
		High:            0.5 * float64(maxRep),
		Respectable:     0.3 * float64(maxRep),
		Disgrace:        0.8 * float64(minRep),
		ExtremeDisgrace: 1.5 * float64(minRep),
	}
	if t.Elite < 20 {
		t.Elite = 20
	}
	if t.High < 10 {
		t.High = 10
	}
	if t.Respectable < 5 {
		t.Respectable = 5
	}
	if t.Disgrace > -5 {
		t.Disgrace = -5
	}
	if t.ExtremeDisgrace > -10 {
		t.ExtremeDisgrace = -10
	}
	return t
}

// SelectTone maps a user's standing to a tone band. Disgrace bands are
// checked first, then earned standing, then plain familiarity from
// interaction count.
func SelectTone(reputation, interactions int, t Thresholds) ToneBand {
	rep := float64(reputation)
	switch {
	case rep <= t.ExtremeDisgrace:
		return ToneExtremeDisgrace
	case rep <= t.Disgrace:
		return ToneDisgrace
	case rep >= t.Elite:
		return ToneElite
	case rep >= t.High:
		return ToneHigh
	case rep >= t.Respectable:
		return ToneRespectable
	case interactions >= 30:
		return ToneFamiliar
	case interactions >= 15:
		return ToneAcquainted
	default:
		return ToneNeutral
	}
}

package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeThresholdsFloors(t *testing.T) {
	t.Run("small community hits fixed floors", func(t *testing.T) {
		th := ComputeThresholds(10, -2)
		assert.Equal(t, 20.0, th.Elite)
		assert.Equal(t, 10.0, th.High)
		assert.Equal(t, 5.0, th.Respectable)
		assert.Equal(t, -5.0, th.Disgrace)
		assert.Equal(t, -10.0, th.ExtremeDisgrace)
	})

	t.Run("large community scales", func(t *testing.T) {
		th := ComputeThresholds(100, -40)
		assert.Equal(t, 70.0, th.Elite)
		assert.Equal(t, 50.0, th.High)
		assert.Equal(t, 30.0, th.Respectable)
		assert.Equal(t, -32.0, th.Disgrace)
		assert.Equal(t, -60.0, th.ExtremeDisgrace)
	})
}

func TestSelectTone(t *testing.T) {
	th := ComputeThresholds(100, -40)

	cases := []struct {
		name         string
		rep, inter   int
		want         ToneBand
	}{
		{"stranger", 0, 1, ToneNeutral},
		{"acquainted by volume", 0, 15, ToneAcquainted},
		{"familiar by volume", 0, 30, ToneFamiliar},
		{"respectable", 35, 5, ToneRespectable},
		{"high standing", 55, 5, ToneHigh},
		{"elite", 80, 5, ToneElite},
		{"disgrace", -35, 50, ToneDisgrace},
		{"extreme disgrace", -70, 50, ToneExtremeDisgrace},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectTone(tc.rep, tc.inter, th))
		})
	}
}

func TestDisgraceOutranksVolume(t *testing.T) {
	th := ComputeThresholds(100, -40)
	// Heavy interaction history never rescues a disgraced reputation.
	assert.Equal(t, ToneDisgrace, SelectTone(-35, 500, th))
}

package brain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWorthinessFloors(t *testing.T) {
	t.Run("small ledger hits floors", func(t *testing.T) {
		th := computeWorthiness(10, -5)
		assert.Equal(t, 20.0, th.elite)
		assert.Equal(t, 10.0, th.high)
		assert.Equal(t, 0.0, th.avg)
	})

	t.Run("large ledger scales", func(t *testing.T) {
		th := computeWorthiness(100, 12.5)
		assert.Equal(t, 70.0, th.elite)
		assert.Equal(t, 40.0, th.high)
		assert.Equal(t, 12.5, th.avg)
	})
}

func TestWorthinessProbabilityTiers(t *testing.T) {
	th := computeWorthiness(100, 10)

	cases := []struct {
		name string
		rep  int
		want float64
	}{
		{"elite", 80, 0.95},
		{"high", 50, 0.80},
		{"above average", 15, 0.60},
		{"below average but clean", 5, 0.40},
		{"mildly negative", -5, 0.20},
		{"deep negative", -50, 0.09},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, worthinessProbability(tc.rep, th))
		})
	}
}

func TestWorthinessDeepNegativeNeverRecovers(t *testing.T) {
	// Even in a community with enormous spread, a deeply negative user
	// stays at the floor probability.
	th := computeWorthiness(1000, 100)
	assert.Equal(t, 0.09, worthinessProbability(-200, th))
}

func TestWorthinessBoundaries(t *testing.T) {
	th := computeWorthiness(100, 10)
	assert.Equal(t, 0.95, worthinessProbability(70, th), "exactly at elite")
	assert.Equal(t, 0.80, worthinessProbability(40, th), "exactly at high")
	assert.Equal(t, 0.60, worthinessProbability(10, th), "exactly at average")
	assert.Equal(t, 0.40, worthinessProbability(0, th), "exactly at zero")
	assert.Equal(t, 0.20, worthinessProbability(-10, th), "exactly at minus ten")
	assert.Equal(t, 0.09, worthinessProbability(-11, th), "just past minus ten")
}

package scale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeScaleApplyAndInvert(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewTimeScale(t0, t1, 1000)

	assert.Equal(t, 0.0, s.Apply(t0))
	assert.Equal(t, 1000.0, s.Apply(t1))

	mid := t0.Add(t1.Sub(t0) / 2)
	assert.InDelta(t, 500.0, s.Apply(mid), 0.001)

	got := s.Invert(500)
	assert.WithinDuration(t, mid, got, time.Second)
}

func TestTimeScaleDegenerateDomain(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewTimeScale(t0, t0, 1000)

	assert.Equal(t, 0.0, s.Apply(t0))
	assert.Equal(t, 0.0, s.Apply(t0.AddDate(1, 0, 0)))
	assert.Equal(t, t0, s.Invert(500))
}

func TestSupplyScaleUpperBoundProperty(t *testing.T) {
	cases := []struct {
		maxSupply float64
		height    float64
	}{
		{0, 500},
		{1, 500},
		{10, 500},
		{123456, 500},
		{4_100_000, 500},
		{987654321, 1334},
		{42, 1},
	}

	for _, tc := range cases {
		s := NewSupplyScale(tc.maxSupply, tc.height)
		assert.GreaterOrEqual(t, s.DomainMax(), tc.maxSupply+tc.height/3,
			"max=%v height=%v", tc.maxSupply, tc.height)
	}
}

func TestSupplyScaleApply(t *testing.T) {
	s := NewSupplyScale(100, 500)

	// Domain zero renders at the baseline, domain max at the top.
	assert.Equal(t, 500.0, s.Apply(0))
	assert.Equal(t, 0.0, s.Apply(s.DomainMax()))
}

func TestSupplyScaleDegenerateDomain(t *testing.T) {
	s := LinearScale{d0: 0, d1: 0, r0: 500, r1: 0}
	assert.Equal(t, 500.0, s.Apply(0), "degenerate domain must not divide by zero")
}

func TestNiceCeil(t *testing.T) {
	cases := map[float64]float64{
		0:       0,
		0.7:     1,
		1:       1,
		1.5:     2,
		3:       5,
		7:       10,
		10:      10,
		130:     200,
		4000:    5000,
		61234:   100000,
		2000000: 2000000,
	}
	for in, want := range cases {
		assert.Equal(t, want, NiceCeil(in), "NiceCeil(%v)", in)
	}
}

func TestTicks(t *testing.T) {
	s := NewSupplyScale(100, 300) // domain [0, 200]
	require.Equal(t, 200.0, s.DomainMax())

	ticks := s.Ticks(4)
	require.Len(t, ticks, 5)
	assert.Equal(t, []float64{0, 50, 100, 150, 200}, ticks)
}

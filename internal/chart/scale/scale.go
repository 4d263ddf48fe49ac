package scale

// Display scales for the supply chart: a time scale across the horizontal
// axis and a linear value scale on the vertical axis. Both are pure
// derived values, rebuilt whenever the series or the dimensions change.

import (
	"math"
	"time"
)

// TimeScale maps a date range onto a horizontal pixel range.
type TimeScale struct {
	t0, t1 time.Time
	r0, r1 float64
}

func NewTimeScale(min, max time.Time, width float64) TimeScale {
	return TimeScale{t0: min, t1: max, r0: 0, r1: width}
}

// Apply maps a date to a pixel offset. A single-observation domain maps
// everything to the left edge.
func (s TimeScale) Apply(t time.Time) float64 {
	span := s.t1.Sub(s.t0)
	if span <= 0 {
		return s.r0
	}
	frac := float64(t.Sub(s.t0)) / float64(span)
	return s.r0 + frac*(s.r1-s.r0)
}

// Invert maps a pixel offset back to a date.
func (s TimeScale) Invert(x float64) time.Time {
	width := s.r1 - s.r0
	if width == 0 || s.t1.Sub(s.t0) <= 0 {
		return s.t0
	}
	frac := (x - s.r0) / width
	return s.t0.Add(time.Duration(frac * float64(s.t1.Sub(s.t0))))
}

// LinearScale maps a value domain onto a vertical pixel range
// (range is inverted: domain max renders at the top).
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewSupplyScale builds the value scale for a supply series: the domain is
// [0, max(supply) + height/3] with the upper bound rounded up to a nice
// value, the range is [height, 0].
func NewSupplyScale(maxSupply, height float64) LinearScale {
	upper := NiceCeil(maxSupply + height/3)
	return LinearScale{d0: 0, d1: upper, r0: height, r1: 0}
}

func (s LinearScale) Apply(v float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	frac := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + frac*(s.r1-s.r0)
}

// DomainMax returns the upper bound of the value domain.
func (s LinearScale) DomainMax() float64 { return s.d1 }

// Ticks returns n+1 evenly spaced domain values from 0 to the upper bound.
func (s LinearScale) Ticks(n int) []float64 {
	if n <= 0 {
		return nil
	}
	ticks := make([]float64, 0, n+1)
	step := (s.d1 - s.d0) / float64(n)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, s.d0+float64(i)*step)
	}
	return ticks
}

// NiceCeil rounds v up to the nearest 1, 2 or 5 times a power of ten.
func NiceCeil(v float64) float64 {
	if v <= 0 {
		return 0
	}
	exp := math.Floor(math.Log10(v))
	pow := math.Pow(10, exp)
	frac := v / pow

	var nice float64
	switch {
	case frac <= 1:
		nice = 1
	case frac <= 2:
		nice = 2
	case frac <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * pow
}

package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(CloseLayout, s)
	require.NoError(t, err)
	return parsed
}

func TestNearestEmptySeries(t *testing.T) {
	_, ok := Nearest(nil, time.Now())
	assert.False(t, ok)
}

func TestNearestExactMatch(t *testing.T) {
	points := []Point{
		{Date: mustParse(t, "01/01/2020"), Supply: 10},
		{Date: mustParse(t, "06/01/2020"), Supply: 15},
		{Date: mustParse(t, "01/01/2021"), Supply: 20},
	}

	p, ok := Nearest(points, mustParse(t, "06/01/2020"))
	require.True(t, ok)
	assert.Equal(t, 15.0, p.Supply)
}

func TestNearestMidpointTieBreaksRight(t *testing.T) {
	points := []Point{
		{Date: mustParse(t, "01/01/2020"), Supply: 10},
		{Date: mustParse(t, "01/01/2021"), Supply: 20},
	}

	mid := points[0].Date.Add(points[1].Date.Sub(points[0].Date) / 2)
	p, ok := Nearest(points, mid)
	require.True(t, ok)
	assert.Equal(t, 20.0, p.Supply)
}

func TestNearestPicksCloserNeighbor(t *testing.T) {
	points := []Point{
		{Date: mustParse(t, "01/01/2020"), Supply: 10},
		{Date: mustParse(t, "01/01/2021"), Supply: 20},
	}

	p, ok := Nearest(points, mustParse(t, "02/01/2020"))
	require.True(t, ok)
	assert.Equal(t, 10.0, p.Supply)

	p, ok = Nearest(points, mustParse(t, "12/01/2020"))
	require.True(t, ok)
	assert.Equal(t, 20.0, p.Supply)
}

func TestNearestBoundaries(t *testing.T) {
	points := []Point{
		{Date: mustParse(t, "01/01/2020"), Supply: 10},
		{Date: mustParse(t, "01/01/2021"), Supply: 20},
	}

	p, ok := Nearest(points, mustParse(t, "01/01/2010"))
	require.True(t, ok)
	assert.Equal(t, 10.0, p.Supply, "query before the first observation selects it")

	p, ok = Nearest(points, mustParse(t, "01/01/2030"))
	require.True(t, ok)
	assert.Equal(t, 20.0, p.Supply, "query after the last observation selects it")
}

func TestNearestMinimizesDistance(t *testing.T) {
	points := []Point{
		{Date: mustParse(t, "01/01/2020"), Supply: 1},
		{Date: mustParse(t, "03/15/2020"), Supply: 2},
		{Date: mustParse(t, "07/04/2020"), Supply: 3},
		{Date: mustParse(t, "12/25/2020"), Supply: 4},
	}

	// Brute-force comparison over a sweep of query dates.
	for d := 0; d < 400; d += 7 {
		query := points[0].Date.AddDate(0, 0, d-10)
		got, ok := Nearest(points, query)
		require.True(t, ok)

		best := points[0]
		bestDist := absDuration(query.Sub(points[0].Date))
		for _, p := range points[1:] {
			dist := absDuration(query.Sub(p.Date))
			if dist < bestDist || (dist == bestDist && p.Date.After(best.Date)) {
				best = p
				bestDist = dist
			}
		}
		assert.Equal(t, best.Supply, got.Supply, "query at %s", query)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

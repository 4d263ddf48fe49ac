package series

import (
	"sort"
	"time"
)

// NearestIndex returns the index of the point temporally closest to t.
// The series must be in chronological order. When t falls exactly between
// two points the later one wins. Queries before the first or after the
// last observation resolve to that boundary point.
func NearestIndex(points []Point, t time.Time) (int, bool) {
	if len(points) == 0 {
		return 0, false
	}

	// Insertion index of t: first point not before t.
	i := sort.Search(len(points), func(j int) bool {
		return !points[j].Date.Before(t)
	})

	if i == 0 {
		return 0, true
	}
	if i == len(points) {
		return len(points) - 1, true
	}

	left := t.Sub(points[i-1].Date)
	right := points[i].Date.Sub(t)
	if right <= left {
		return i, true
	}
	return i - 1, true
}

// Nearest is NearestIndex returning the point itself.
func Nearest(points []Point, t time.Time) (Point, bool) {
	i, ok := NearestIndex(points, t)
	if !ok {
		return Point{}, false
	}
	return points[i], true
}

package series

import (
	"sort"
	"time"
)

// CloseLayout is the locale date format used by the upstream document,
// e.g. "01/01/1970".
const CloseLayout = "01/02/2006"

// Datum is one raw observation as it appears in the upstream JSON array.
type Datum struct {
	Close  string  `json:"close"`
	Supply float64 `json:"supply"`
}

// Point is a parsed observation.
type Point struct {
	Date   time.Time
	Supply float64
}

// ParsePoints converts raw data to points, skipping entries whose date does
// not parse, and returns them in chronological order.
func ParsePoints(data []Datum) []Point {
	points := make([]Point, 0, len(data))
	for _, d := range data {
		date, err := time.Parse(CloseLayout, d.Close)
		if err != nil {
			continue
		}
		points = append(points, Point{Date: date, Supply: d.Supply})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// MaxSupply returns the largest supply value in the series, 0 when empty.
func MaxSupply(points []Point) float64 {
	max := 0.0
	for _, p := range points {
		if p.Supply > max {
			max = p.Supply
		}
	}
	return max
}

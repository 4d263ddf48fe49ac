package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/chart/theme"
)

func TestMeasureFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, Dimensions{Width: DefaultWidth, Height: DefaultHeight}, Measure(0, 0))
	assert.Equal(t, Dimensions{Width: DefaultWidth, Height: 400}, Measure(-1, 400))
	assert.Equal(t, Dimensions{Width: 800, Height: 400}, Measure(800, 400))
}

func TestAreaChartEmptySeries(t *testing.T) {
	_, err := AreaChart(nil, Options{Theme: theme.Default()})
	assert.Error(t, err)
}

func TestAreaChartSinglePoint(t *testing.T) {
	points := []series.Point{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Supply: 42},
	}

	dc, err := AreaChart(points, Options{Theme: theme.Default()})
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, dc.Width())
	assert.Equal(t, DefaultHeight, dc.Height())
}

func TestAreaChartWithTooltipAndLabel(t *testing.T) {
	points := []series.Point{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Supply: 10},
		{Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Supply: 20},
	}

	dc, err := AreaChart(points, Options{
		Dims:    Dimensions{Width: 640, Height: 320},
		Theme:   theme.Default(),
		Title:   "Zcash Shielded Supply",
		Label:   "10 ZEC in Sprout Pool",
		Tooltip: &points[1],
	})
	require.NoError(t, err)
	assert.Equal(t, 640, dc.Width())
	assert.Equal(t, 320, dc.Height())
}

func TestAreaChartRejectsTinyDimensions(t *testing.T) {
	points := []series.Point{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Supply: 10},
	}

	_, err := AreaChart(points, Options{
		Dims:  Dimensions{Width: 10, Height: 10},
		Theme: theme.Default(),
	})
	assert.Error(t, err)
}

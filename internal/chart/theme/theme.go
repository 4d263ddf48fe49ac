package theme

import "image/color"

// Theme holds the chart palette. Values are fixed at startup and treated
// as read-only; Default returns a copy so callers cannot mutate the shared
// set.
type Theme struct {
	Background   color.RGBA
	AreaTop      color.RGBA // gradient start at the line
	AreaBottom   color.RGBA // gradient end at the baseline
	Stroke       color.RGBA
	Grid         color.RGBA
	Label        color.RGBA
	TooltipFill  color.RGBA
	TooltipText  color.RGBA
	MarkerFill   color.RGBA
	OverlayLabel color.RGBA
}

var defaultTheme = Theme{
	Background:   color.RGBA{22, 22, 29, 255},
	AreaTop:      color.RGBA{244, 183, 40, 200}, // Zcash yellow
	AreaBottom:   color.RGBA{244, 183, 40, 10},
	Stroke:       color.RGBA{244, 183, 40, 255},
	Grid:         color.RGBA{70, 70, 80, 255},
	Label:        color.RGBA{220, 220, 225, 255},
	TooltipFill:  color.RGBA{40, 40, 48, 240},
	TooltipText:  color.RGBA{255, 255, 255, 255},
	MarkerFill:   color.RGBA{255, 255, 255, 255},
	OverlayLabel: color.RGBA{255, 255, 255, 255},
}

func Default() Theme {
	return defaultTheme
}

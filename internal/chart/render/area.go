package render

// Area chart renderer for the shielded supply series.

import (
	"fmt"
	"os"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"zpool-charts/internal/chart/scale"
	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/chart/theme"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/zformat"
)

const (
	// DefaultWidth and DefaultHeight apply when the host dimensions
	// cannot be measured.
	DefaultWidth  = 1000
	DefaultHeight = 500

	marginLeft   = 90.0
	marginRight  = 30.0
	marginTop    = 50.0
	marginBottom = 50.0

	gridLinesCount = 4

	titleFontSize   = 22.0
	labelFontSize   = 14.0
	tooltipFontSize = 13.0
	overlayFontSize = 18.0

	markerRadius     = 4.0
	tooltipPadding   = 8.0
	tooltipCorner    = 4.0
	tooltipLineGap   = 16.0
	tooltipOffset    = 12.0
	strokeWidth      = 2.0
	gridStrokeWidth  = 1.0
	overlayX         = marginLeft
	overlayY         = marginTop - 18.0
	titleY           = 26.0
	dateLabelOffsetY = 18.0
)

// Dimensions are the chart's pixel dimensions.
type Dimensions struct {
	Width  int
	Height int
}

// Measure takes the host's rendered width and height and falls back to
// the fixed defaults when measurement is unavailable.
func Measure(width, height int) Dimensions {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return Dimensions{Width: width, Height: height}
}

// Options control a single render pass.
type Options struct {
	Dims    Dimensions
	Theme   theme.Theme
	Title   string
	Label   string        // overlay label drawn above the plot, may be empty
	Tooltip *series.Point // optional highlighted point with tooltip box
}

var fontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
}

func loadFontFace(dc *gg.Context, size float64) (string, bool) {
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, size); err == nil {
			return path, true
		}
	}
	return "", false
}

// AreaChart renders the series as an area chart and returns the drawing
// context, ready to be encoded or saved.
func AreaChart(points []series.Point, opts Options) (*gg.Context, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no data points to render")
	}

	dims := Measure(opts.Dims.Width, opts.Dims.Height)
	th := opts.Theme

	plotW := float64(dims.Width) - marginLeft - marginRight
	plotH := float64(dims.Height) - marginTop - marginBottom
	if plotW <= 0 || plotH <= 0 {
		return nil, fmt.Errorf("dimensions %dx%d leave no plot area", dims.Width, dims.Height)
	}

	ts := scale.NewTimeScale(points[0].Date, points[len(points)-1].Date, plotW)
	ls := scale.NewSupplyScale(series.MaxSupply(points), plotH)

	dc := gg.NewContext(dims.Width, dims.Height)
	dc.SetColor(th.Background)
	dc.Clear()

	fontPath, fontLoaded := loadFontFace(dc, labelFontSize)
	if !fontLoaded {
		logging.LogWarn("No usable font found, rendering chart without labels",
			zap.Int("paths_checked", len(fontPaths)))
	}

	drawGrid(dc, th, ls, fontLoaded)

	baseline := marginTop + plotH

	// Area fill under the supply line, faded toward the baseline.
	gradient := gg.NewLinearGradient(0, marginTop, 0, baseline)
	gradient.AddColorStop(0, th.AreaTop)
	gradient.AddColorStop(1, th.AreaBottom)

	dc.MoveTo(marginLeft+ts.Apply(points[0].Date), baseline)
	for _, p := range points {
		dc.LineTo(marginLeft+ts.Apply(p.Date), marginTop+ls.Apply(p.Supply))
	}
	dc.LineTo(marginLeft+ts.Apply(points[len(points)-1].Date), baseline)
	dc.ClosePath()
	dc.SetFillStyle(gradient)
	dc.Fill()

	dc.SetColor(th.Stroke)
	dc.SetLineWidth(strokeWidth)
	for i, p := range points {
		x := marginLeft + ts.Apply(p.Date)
		y := marginTop + ls.Apply(p.Supply)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	// A single observation has no line to stroke; mark the point itself.
	if len(points) == 1 {
		dc.SetColor(th.Stroke)
		dc.DrawCircle(marginLeft+ts.Apply(points[0].Date), marginTop+ls.Apply(points[0].Supply), markerRadius)
		dc.Fill()
	}

	if fontLoaded {
		drawDateLabels(dc, th, points, ts, baseline, fontPath)

		if opts.Title != "" {
			dc.LoadFontFace(fontPath, titleFontSize)
			dc.SetColor(th.Label)
			dc.DrawString(opts.Title, marginLeft, titleY)
		}
		if opts.Label != "" {
			dc.LoadFontFace(fontPath, overlayFontSize)
			dc.SetColor(th.OverlayLabel)
			dc.DrawString(opts.Label, overlayX, overlayY)
		}
	}

	if opts.Tooltip != nil {
		drawTooltip(dc, th, *opts.Tooltip, ts, ls, fontPath, fontLoaded, dims)
	}

	return dc, nil
}

func drawGrid(dc *gg.Context, th theme.Theme, ls scale.LinearScale, fontLoaded bool) {
	dc.SetColor(th.Grid)
	dc.SetLineWidth(gridStrokeWidth)

	plotW := float64(dc.Width()) - marginLeft - marginRight
	for _, tick := range ls.Ticks(gridLinesCount) {
		y := marginTop + ls.Apply(tick)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()

		if fontLoaded {
			dc.SetColor(th.Label)
			dc.DrawStringAnchored(zformat.Amount(tick), marginLeft-8, y, 1, 0.35)
			dc.SetColor(th.Grid)
		}
	}
}

func drawDateLabels(dc *gg.Context, th theme.Theme, points []series.Point, ts scale.TimeScale, baseline float64, fontPath string) {
	dc.LoadFontFace(fontPath, labelFontSize)
	dc.SetColor(th.Label)

	first := points[0]
	last := points[len(points)-1]
	dc.DrawStringAnchored(first.Date.Format(series.CloseLayout),
		marginLeft+ts.Apply(first.Date), baseline+dateLabelOffsetY, 0, 0.5)
	if !last.Date.Equal(first.Date) {
		dc.DrawStringAnchored(last.Date.Format(series.CloseLayout),
			marginLeft+ts.Apply(last.Date), baseline+dateLabelOffsetY, 1, 0.5)
	}
}

func drawTooltip(dc *gg.Context, th theme.Theme, p series.Point, ts scale.TimeScale, ls scale.LinearScale, fontPath string, fontLoaded bool, dims Dimensions) {
	x := marginLeft + ts.Apply(p.Date)
	y := marginTop + ls.Apply(p.Supply)

	dc.SetColor(th.MarkerFill)
	dc.DrawCircle(x, y, markerRadius)
	dc.Fill()

	if !fontLoaded {
		return
	}

	dc.LoadFontFace(fontPath, tooltipFontSize)
	dateLine := p.Date.Format(series.CloseLayout)
	valueLine := zformat.Amount(p.Supply) + " ZEC"

	w1, _ := dc.MeasureString(dateLine)
	w2, _ := dc.MeasureString(valueLine)
	boxW := w1
	if w2 > boxW {
		boxW = w2
	}
	boxW += 2 * tooltipPadding
	boxH := 2*tooltipLineGap + 2*tooltipPadding

	boxX := x + tooltipOffset
	if boxX+boxW > float64(dims.Width) {
		boxX = x - tooltipOffset - boxW
	}
	boxY := y - boxH - tooltipOffset
	if boxY < 0 {
		boxY = y + tooltipOffset
	}

	dc.SetColor(th.TooltipFill)
	dc.DrawRoundedRectangle(boxX, boxY, boxW, boxH, tooltipCorner)
	dc.Fill()

	dc.SetColor(th.TooltipText)
	dc.DrawString(dateLine, boxX+tooltipPadding, boxY+tooltipPadding+tooltipLineGap-4)
	dc.DrawString(valueLine, boxX+tooltipPadding, boxY+tooltipPadding+2*tooltipLineGap-4)
}

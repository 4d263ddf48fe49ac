package export

// Export of the supply chart to a PNG file, optionally annotated with the
// current balance of the active pool.

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"zpool-charts/internal/chart/render"
	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/chart/theme"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/zformat"
)

// PoolType identifies a shielded value pool.
type PoolType string

const (
	PoolSprout  PoolType = "sprout"
	PoolSapling PoolType = "sapling"
	PoolOrchard PoolType = "orchard"
	PoolDefault PoolType = "default"
)

// ParsePoolType validates a pool identifier.
func ParsePoolType(s string) (PoolType, error) {
	switch PoolType(s) {
	case PoolSprout, PoolSapling, PoolOrchard, PoolDefault:
		return PoolType(s), nil
	}
	return "", fmt.Errorf("unknown pool type %q", s)
}

// PoolBalance is one observation of a pool's balance.
type PoolBalance struct {
	Timestamp string  `json:"timestamp"`
	Supply    float64 `json:"supply"`
}

// BalanceSnapshot maps each pool to its latest balance, when known.
type BalanceSnapshot struct {
	Sprout  *PoolBalance `json:"sproutSupply,omitempty"`
	Sapling *PoolBalance `json:"saplingSupply,omitempty"`
	Orchard *PoolBalance `json:"orchardSupply,omitempty"`
}

var poolNames = map[PoolType]string{
	PoolSprout:  "Sprout",
	PoolSapling: "Sapling",
	PoolOrchard: "Orchard",
}

// OverlayLabel composes the annotation for the active pool type, e.g.
// "123,456 ZEC in Sprout Pool". It is empty when the pool has no balance
// entry or the pool type carries no label.
func OverlayLabel(pool PoolType, balances BalanceSnapshot) string {
	name, ok := poolNames[pool]
	if !ok {
		return ""
	}

	var balance *PoolBalance
	switch pool {
	case PoolSprout:
		balance = balances.Sprout
	case PoolSapling:
		balance = balances.Sapling
	case PoolOrchard:
		balance = balances.Orchard
	}
	if balance == nil {
		return ""
	}

	return fmt.Sprintf("%s ZEC in %s Pool", zformat.Amount(balance.Supply), name)
}

// Filename returns the download name for an exported chart.
func Filename(pool PoolType) string {
	return fmt.Sprintf("zcash-%s-pool-chart.png", pool)
}

// Chart renders the series with the pool annotation overlaid and writes it
// to outDir. Rasterization failures are logged and abort the export.
func Chart(points []series.Point, pool PoolType, balances BalanceSnapshot, dims render.Dimensions, outDir string) (string, error) {
	dc, err := render.AreaChart(points, render.Options{
		Dims:  dims,
		Theme: theme.Default(),
		Title: "Zcash Shielded Supply",
		Label: OverlayLabel(pool, balances),
	})
	if err != nil {
		logging.LogError("Failed to rasterize chart for export",
			zap.String("pool", string(pool)), zap.Error(err))
		return "", fmt.Errorf("failed to rasterize chart: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := filepath.Join(outDir, Filename(pool))
	if err := dc.SavePNG(filename); err != nil {
		logging.LogError("Failed to save exported chart",
			zap.String("filename", filename), zap.Error(err))
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return "", fmt.Errorf("failed to stat exported chart: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(filename)
		logging.LogError("Exported chart file is empty", zap.String("filename", filename))
		return "", fmt.Errorf("exported chart file is empty")
	}

	logging.LogInfo("Chart exported",
		zap.String("filename", filename),
		zap.Int64("fileSize", info.Size()),
		zap.Int("points", len(points)))

	return filename, nil
}

package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zpool-charts/internal/chart/render"
	"zpool-charts/internal/chart/series"
)

func TestParsePoolType(t *testing.T) {
	for _, s := range []string{"sprout", "sapling", "orchard", "default"} {
		pool, err := ParsePoolType(s)
		require.NoError(t, err)
		assert.Equal(t, PoolType(s), pool)
	}

	_, err := ParsePoolType("lockbox")
	assert.Error(t, err)
}

func TestOverlayLabelSprout(t *testing.T) {
	balances := BalanceSnapshot{
		Sprout: &PoolBalance{Timestamp: "2021-01-01T00:00:00Z", Supply: 123456},
	}

	label := OverlayLabel(PoolSprout, balances)
	assert.Equal(t, "123,456 ZEC in Sprout Pool", label)
}

func TestOverlayLabelMissingBalance(t *testing.T) {
	assert.Equal(t, "", OverlayLabel(PoolSprout, BalanceSnapshot{}))
	assert.Equal(t, "", OverlayLabel(PoolSapling, BalanceSnapshot{
		Sprout: &PoolBalance{Supply: 1},
	}))
}

func TestOverlayLabelDefaultPool(t *testing.T) {
	balances := BalanceSnapshot{
		Sprout:  &PoolBalance{Supply: 1},
		Sapling: &PoolBalance{Supply: 2},
		Orchard: &PoolBalance{Supply: 3},
	}
	assert.Equal(t, "", OverlayLabel(PoolDefault, balances))
}

func TestOverlayLabelPerPool(t *testing.T) {
	balances := BalanceSnapshot{
		Sapling: &PoolBalance{Supply: 1000000},
		Orchard: &PoolBalance{Supply: 2500.5},
	}

	assert.Equal(t, "1,000,000 ZEC in Sapling Pool", OverlayLabel(PoolSapling, balances))
	assert.Equal(t, "2,500.50 ZEC in Orchard Pool", OverlayLabel(PoolOrchard, balances))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "zcash-sprout-pool-chart.png", Filename(PoolSprout))
	assert.Equal(t, "zcash-orchard-pool-chart.png", Filename(PoolOrchard))
}

func TestChartWritesPNG(t *testing.T) {
	points := []series.Point{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Supply: 10},
		{Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Supply: 20},
	}
	balances := BalanceSnapshot{
		Sprout: &PoolBalance{Supply: 123456},
	}

	outDir := t.TempDir()
	filename, err := Chart(points, PoolSprout, balances, render.Dimensions{Width: 400, Height: 200}, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "zcash-sprout-pool-chart.png"), filename)

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestChartEmptySeriesAborts(t *testing.T) {
	outDir := t.TempDir()
	_, err := Chart(nil, PoolSprout, BalanceSnapshot{}, render.Dimensions{}, outDir)
	require.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed export must not leave a file behind")
}

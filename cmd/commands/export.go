package commands

// Command to export the labeled pool chart to a PNG file.

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zpool-charts/internal/chart/render"
	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/export"
	"zpool-charts/internal/infra/config"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/infra/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [pool]",
	Short: "Render the supply chart and write zcash-<pool>-pool-chart.png",
	Long:  `Render the supply chart annotated for the given pool (sprout, sapling, orchard or default) and write it as zcash-<pool>-pool-chart.png.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	poolArg := "default"
	if len(args) > 0 {
		poolArg = args[0]
	}
	pool, err := export.ParsePoolType(poolArg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(cfg.App.DataDir)
	if err != nil {
		logging.LogWarn("Snapshot store unavailable", zap.Error(err))
		st = nil
	} else {
		defer st.Close()
	}

	client := newClient(cfg)

	loader := newLoader(client, st)
	defer loader.Close()
	loader.Load()

	state, err := loader.Wait(ctx)
	if err != nil {
		return fmt.Errorf("timed out waiting for supply data: %w", err)
	}
	if state != series.StateReady {
		return fmt.Errorf("supply data unavailable: %v", loader.Err())
	}

	balances := &balanceCache{}
	refreshBalances(ctx, client, st, balances)

	dims := render.Measure(cfg.Chart.Width, cfg.Chart.Height)
	filename, err := export.Chart(loader.Points(), pool, balances.Get(), dims, cfg.Chart.OutDir)
	if err != nil {
		return err
	}

	logging.LogSuccess("Chart exported", zap.String("filename", filename))
	fmt.Println(filename)
	return nil
}

package commands

// Command to refresh the local snapshot store from upstream.

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zpool-charts/internal/infra/config"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/infra/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the supply series and pool balances and store them locally",
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer st.Close()

	client := newClient(cfg)

	data, err := client.FetchShieldedSupply(ctx)
	if err != nil {
		logging.LogError("Failed to fetch shielded supply", zap.Error(err))
		return fmt.Errorf("failed to fetch shielded supply: %w", err)
	}
	if err := st.SaveSeries(ctx, data); err != nil {
		return fmt.Errorf("failed to store series: %w", err)
	}
	logging.LogSuccess("Shielded supply series stored", zap.Int("entries", len(data)))

	balances, err := client.FetchPoolBalances(ctx)
	if err != nil {
		logging.LogWarn("Failed to fetch pool balances", zap.Error(err))
		return nil
	}
	if err := st.SaveBalances(ctx, balances); err != nil {
		return fmt.Errorf("failed to store balances: %w", err)
	}
	logging.LogSuccess("Pool balances stored")
	return nil
}

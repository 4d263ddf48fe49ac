package commands

// Command to run the HTTP API with graceful shutdown.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zpool-charts/internal/content"
	"zpool-charts/internal/httpserver"
	"zpool-charts/internal/infra/config"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/infra/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API serving the supply series, tooltip lookups and rendered charts",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.App.DataDir)
	if err != nil {
		logging.LogWarn("Snapshot store unavailable, continuing without it", zap.Error(err))
		st = nil
	} else {
		defer st.Close()
	}

	client := newClient(cfg)
	loader := newLoader(client, st)
	defer loader.Close()
	loader.Load()

	balances := &balanceCache{}
	go refreshBalances(ctx, client, st, balances)

	var wallets *content.Directory
	if cfg.Chart.Wallets != "" {
		wallets, err = content.LoadDirectory(cfg.Chart.Wallets)
		if err != nil {
			logging.LogWarn("Wallet directory not loaded", zap.Error(err))
			wallets = nil
		}
	}

	srv := httpserver.New(httpserver.Config{
		Series:     loader,
		Balances:   balances.Get,
		Wallets:    wallets,
		RatePerSec: cfg.Server.RatePerSec,
		Burst:      cfg.Server.Burst,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogSuccess("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logging.LogError("HTTP server failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logging.LogInfo("Shutdown signal received, stopping HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logging.LogWarn("HTTP server shutdown timed out", zap.Error(err))
		return err
	}

	logging.LogSuccess("HTTP server stopped gracefully")
	return nil
}

package commands

// Command to run the Telegram delivery bot with graceful shutdown.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zpool-charts/internal/chart/render"
	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/export"
	"zpool-charts/internal/infra/config"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/infra/store"
	"zpool-charts/internal/monitor"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot posting the supply chart",
	RunE:  runBot,
}

// botSource adapts the loader and balance cache to the monitor.
type botSource struct {
	loader   *series.Loader
	balances *balanceCache
}

func (s *botSource) Points() []series.Point           { return s.loader.Points() }
func (s *botSource) Balances() export.BalanceSnapshot { return s.balances.Get() }

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required (env: TELEGRAM_BOT_TOKEN)")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required (env: TELEGRAM_CHAT_ID)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogError("Failed to initialize bot", zap.Error(err))
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	logging.LogSuccess("Bot authorized", zap.String("username", bot.Self.UserName))

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
	refreshBalances(ctx, client, st, balances)

	src := &botSource{loader: loader, balances: balances}
	opts := monitor.Options{
		ChatID:   cfg.Telegram.ChatID,
		SendTime: cfg.Telegram.SendTime,
		OutDir:   cfg.Chart.OutDir,
		Pool:     export.PoolDefault,
		Dims:     render.Measure(cfg.Chart.Width, cfg.Chart.Height),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		monitor.RunChartMonitor(ctx, bot, src, opts)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		monitor.RunCommandHandler(ctx, bot, src, opts)
	}()

	logging.LogSuccess("Bot is running", zap.String("status", "active"))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping bot...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.LogSuccess("Bot stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.LogWarn("Timeout waiting for bot to stop, forcing shutdown")
	}

	return nil
}

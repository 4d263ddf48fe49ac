package monitor

// Telegram delivery of the supply chart: a daily post at the configured
// time plus /chart and /supply commands.

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"zpool-charts/internal/chart/render"
	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/export"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/zformat"
)

// ChartSource supplies the data the monitor posts.
type ChartSource interface {
	Points() []series.Point
	Balances() export.BalanceSnapshot
}

type Options struct {
	ChatID   string
	SendTime string // "HH:MM", local time
	OutDir   string
	Pool     export.PoolType
	Dims     render.Dimensions
}

// RunChartMonitor posts the chart daily at opts.SendTime until ctx is
// cancelled.
func RunChartMonitor(ctx context.Context, bot *tgbotapi.BotAPI, src ChartSource, opts Options) {
	if bot == nil {
		logging.LogWarn("Bot is nil, chart monitor not started")
		return
	}
	if opts.ChatID == "" {
		logging.LogWarn("Chat ID is empty, chart monitor not started")
		return
	}
	if opts.SendTime == "" {
		opts.SendTime = "10:00"
	}
	if opts.Pool == "" {
		opts.Pool = export.PoolDefault
	}

	logging.LogInfo("Starting chart monitor",
		zap.String("chatID", opts.ChatID),
		zap.String("sendTime", opts.SendTime))

	for {
		wait, err := untilNext(opts.SendTime, time.Now())
		if err != nil {
			logging.LogError("Invalid send time, chart monitor stopped",
				zap.String("sendTime", opts.SendTime), zap.Error(err))
			return
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			logging.LogInfo("Chart monitor stopped")
			return
		case <-t.C:
		}

		sendChart(bot, src, opts)
	}
}

// untilNext returns the duration until the next occurrence of "HH:MM".
func untilNext(sendTime string, now time.Time) (time.Duration, error) {
	parts := strings.SplitN(sendTime, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("send time %q is not HH:MM", sendTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("send time %q has an invalid hour", sendTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("send time %q has an invalid minute", sendTime)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now), nil
}

func sendChart(bot *tgbotapi.BotAPI, src ChartSource, opts Options) {
	points := src.Points()
	if len(points) == 0 {
		logging.LogWarn("No supply data available, skipping chart post")
		return
	}

	chartPath, err := export.Chart(points, opts.Pool, src.Balances(), opts.Dims, opts.OutDir)
	if err != nil {
		logging.LogError("Failed to export chart for Telegram", zap.Error(err))
		return
	}

	photo := tgbotapi.NewPhoto(parseChatID(opts.ChatID), tgbotapi.FilePath(chartPath))
	photo.Caption = supplyCaption(points)
	if _, err := bot.Send(photo); err != nil {
		logging.LogError("Failed to send chart photo", zap.Error(err))
		return
	}
	logging.LogSuccess("Chart posted to Telegram", zap.String("chatID", opts.ChatID))
}

func supplyCaption(points []series.Point) string {
	last := points[len(points)-1]
	return fmt.Sprintf("Shielded supply: %s ZEC (%s)",
		zformat.Amount(last.Supply), last.Date.Format(series.CloseLayout))
}

// RunCommandHandler answers /chart and /supply in the configured chat.
func RunCommandHandler(ctx context.Context, bot *tgbotapi.BotAPI, src ChartSource, opts Options) {
	if bot == nil || opts.ChatID == "" {
		logging.LogWarn("Command handler not started, bot or chat ID missing")
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	logging.LogInfo("Command handler started", zap.String("chatID", opts.ChatID))

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			logging.LogInfo("Command handler stopped")
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if update.Message.Chat.ID != parseChatID(opts.ChatID) {
				continue
			}

			switch update.Message.Command() {
			case "chart":
				sendChart(bot, src, opts)
			case "supply":
				points := src.Points()
				if len(points) == 0 {
					msg := tgbotapi.NewMessage(update.Message.Chat.ID, "No supply data available yet.")
					bot.Send(msg)
					continue
				}
				msg := tgbotapi.NewMessage(update.Message.Chat.ID, supplyCaption(points))
				if _, err := bot.Send(msg); err != nil {
					logging.LogError("Failed to send supply message", zap.Error(err))
				}
			}
		}
	}
}

func parseChatID(chatID string) int64 {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		logging.LogWarn("Invalid chat ID", zap.String("chatID", chatID))
		return 0
	}
	return id
}

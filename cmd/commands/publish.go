package commands

// Renders charts and sends them to a Telegram chat

import (
	"context"
	"fmt"
	"html"
	"os"
	"os/signal"
	"syscall"
	"time"

	"synthetic-charts/internal/features/publish"
	"synthetic-charts/internal/features/reports"
	"synthetic-charts/internal/infra/log"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishCmd = &cobra.Command{
	Use:   "publish [variant...]",
	Short: "Render charts and send them to Telegram",
	Long: `Render the named chart variants (every variant when none is given) and send
each PNG as a photo to the configured chat. Needs TELEGRAM_BOT_TOKEN and
TELEGRAM_CHAT_ID (or telegram.bot_token / telegram.chat_id in config.yaml).`,
	ValidArgs: reports.Names(),
	RunE:      runPublish,
}

func init() {
	publishCmd.Flags().Int64("chat-id", 0, "Telegram chat id, overrides TELEGRAM_CHAT_ID")
}

func runPublish(cmd *cobra.Command, args []string) error {
	if err := cfg.Telegram.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName), log.RunID(runID))

	results, err := reports.RunAll(ctx, selectedVariants(args), reports.Options{
		OutputDir: cfg.App.OutputDir,
		Seed:      cfg.App.Seed,
		RunID:     runID,
	})
	if err != nil {
		return err
	}

	photos := make([]publish.Photo, 0, len(results))
	for _, res := range results {
		photos = append(photos, publish.Photo{Path: res.Path, Caption: caption(res)})
	}

	start := time.Now()
	publisher := publish.NewPublisher(bot, cfg.Telegram.ChatID, publish.Options{
		RequestsPerSecond: cfg.Telegram.RequestsPerSecond,
		MaxRetries:        cfg.Telegram.MaxRetries,
		RunID:             runID,
	})
	sent, err := publisher.PublishAll(ctx, photos)
	if err != nil {
		log.LogError("Publishing failed",
			zap.Int("sent", sent),
			zap.Int("total", len(photos)),
			zap.Error(err),
			log.RunID(runID))
		return err
	}

	log.LogSuccess(fmt.Sprintf("Sent %d charts to chat %d", sent, cfg.Telegram.ChatID),
		zap.Int("sent", sent),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		log.RunID(runID))
	return nil
}

func caption(res reports.Result) string {
	title := res.Variant
	if v, err := reports.Lookup(res.Variant); err == nil && v.Style.Title != "" {
		title = v.Style.Title
	}
	return fmt.Sprintf("<b>%s</b>\n%dx%d px, %s, seed %d",
		html.EscapeString(title), res.Width, res.Height, humanize.Bytes(uint64(res.Bytes)), cfg.App.Seed)
}

// cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"luckydraw-crm/internal/app"
	"luckydraw-crm/internal/telegram"
)

func main() {
	cfg := app.LoadConfig()
	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("telegram init failed", "error", err)
		os.Exit(1)
	}
	slog.Info("bot started", "username", api.Self.UserName)

	bot := telegram.New(svc.Sessions, svc.Backend, svc.Format)
	if err := bot.Run(ctx, api); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finnychat/internal/app"
	"github.com/MrJamesThe3rd/finnychat/internal/config"
	"github.com/MrJamesThe3rd/finnychat/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Telegram.Token == "" || len(cfg.Telegram.Users) == 0 {
		slog.Error("TELEGRAM_TOKEN and TELEGRAM_USERS must be set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to build agent", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		slog.Error("failed to connect to telegram", "error", err)
		os.Exit(1)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	slog.Info("bot started", "username", api.Self.UserName, "users", len(cfg.Telegram.Users))

	telegram.New(api, a.Agent, cfg.Telegram.Users, telegram.WithSeeder(a.Seed)).Run(ctx, updates)
}

// Command paisa runs the expense tracker: the dashboard API, the Telegram
// webhook, and the cron-triggered reminder endpoint in one process.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paisa/internal/amqp"
	"paisa/internal/api"
	"paisa/internal/bot"
	"paisa/internal/config"
	"paisa/internal/log"
	"paisa/internal/notify"
	"paisa/internal/reminder"
	"paisa/internal/storage"
	"paisa/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: "paisa"})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sender := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID)

	// With a broker, notifications are queued for the worker process;
	// without one, they go straight out over the chat transport.
	var publisher notify.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
		logger.Info("Notifications routed through AMQP", "exchange", cfg.AMQPExchange)
	} else {
		publisher = &notify.DirectPublisher{Sender: sender}
		logger.Info("No AMQP URL configured, sending notifications directly")
	}
	notifier := notify.New(publisher)

	botHandler := bot.New(store, sender, notifier)
	scheduler := reminder.New(store, notifier)
	server := api.NewServer(cfg, store, botHandler, scheduler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}

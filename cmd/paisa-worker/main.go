// Command paisa-worker drains the notification queue and delivers each
// message to Telegram. Running delivery out of process keeps the request path
// fast and survives chat API hiccups via broker redelivery.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paisa/internal/amqp"
	"paisa/internal/config"
	"paisa/internal/log"
	"paisa/internal/telegram"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: "paisa-worker"})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the worker")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	sender := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeNotifications(ctx, func(n *amqp.Notification) error {
			sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return sender.SendMessage(sendCtx, n.Text, nil)
		})
	})

	logger.Info("Worker started", "queue", cfg.AMQPQueue)
	return g.Wait()
}

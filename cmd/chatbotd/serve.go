package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"factory-chatbot-backend/internal/api"
	"factory-chatbot-backend/internal/notification"
	"factory-chatbot-backend/internal/telegram"
	"factory-chatbot-backend/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the alert watcher and the Telegram bot",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()

	var push *webpush.Options
	if cfg.Push.Enabled() {
		push = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Warn("VAPID keys not configured, push notifications disabled")
	}

	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		if bot, err = telegram.New(cfg.Telegram.Token, cfg.Telegram.TimeoutSeconds, a.dispatcher, logger); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if push != nil {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, a.store, push, logger)
		pool.Start(ctx)
		defer pool.Wait()

		w := watcher.NewService(cfg.Watcher, a.alerts, pool, logger)
		g.Go(func() error { return w.Run(ctx) })
	}

	if bot != nil {
		g.Go(func() error { return bot.Run(ctx) })
	}

	handler := api.NewHandler(a.store, a.dispatcher, a.alerts, cfg.Chatbot, push, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg.Server, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}

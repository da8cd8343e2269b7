package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxmind/voxmind/internal/api"
	"github.com/voxmind/voxmind/internal/api/handlers"
	"github.com/voxmind/voxmind/internal/cache"
	"github.com/voxmind/voxmind/internal/config"
	"github.com/voxmind/voxmind/internal/llm"
	"github.com/voxmind/voxmind/internal/telegram"
	"github.com/voxmind/voxmind/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Warn("running with degraded features", "error", err)
	}

	ctx := context.Background()

	bot := telegram.NewClient(cfg.Telegram)

	// AI provider (optional — without it both flows reply with a config notice)
	ai, err := llm.NewProvider(ctx, cfg.LLM)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		slog.Warn("ai provider not configured",
			"provider", cfg.LLM.Provider,
			"correction_provider", cfg.LLM.CorrectionProvider,
			"error", err,
		)
	case err != nil:
		slog.Error("invalid ai provider", "error", err)
		os.Exit(1)
	default:
		slog.Info("ai provider ready", "provider", ai.Name())
	}

	// Redis transcript store (optional)
	var (
		store  webhook.TranscriptStore
		pinger handlers.Pinger
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, falling back to message text", "error", err)
		}
		ts := cache.NewTranscriptStore(rdb, cfg.Redis.TranscriptTTL)
		store, pinger = ts, ts
	}

	dispatcher := webhook.NewDispatcher(bot, ai, store)

	if cfg.Telegram.WebhookURL != "" {
		if err := bot.SetWebhook(ctx, cfg.Telegram.WebhookURL); err != nil {
			slog.Warn("webhook registration failed", "error", err)
		} else {
			slog.Info("webhook registered", "url", cfg.Telegram.WebhookURL)
		}
	}

	router := api.NewRouter(dispatcher, pinger)
	handler := router.Setup()

	// Updates are handled inline, so the write timeout must outlast an AI call.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 4*cfg.Telegram.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting bot server", "addr", cfg.Addr(), "ai_provider", cfg.LLM.Provider, "ai_enabled", ai != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

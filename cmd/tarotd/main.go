package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/randomtoy/arcano/internal/adapters/catalog"
	"github.com/randomtoy/arcano/internal/adapters/history"
	httpadapter "github.com/randomtoy/arcano/internal/adapters/http"
	"github.com/randomtoy/arcano/internal/adapters/llm/openrouter"
	"github.com/randomtoy/arcano/internal/app"
	"github.com/randomtoy/arcano/internal/config"
	"github.com/randomtoy/arcano/internal/entropy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	rng, err := entropy.New(cfg.EntropyMode, logger)
	if err != nil {
		logger.Error("no entropy source", "mode", cfg.EntropyMode, "error", err)
		os.Exit(1)
	}

	cat := catalog.NewEmbeddedStore()
	if _, err := cat.ListSpreads(context.Background()); err != nil {
		logger.Error("invalid catalog", "error", err)
		os.Exit(1)
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logger.Error("failed to open history", "path", cfg.HistoryDB, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	opts := []app.Option{app.WithHistory(store)}
	if cfg.NarratorEnabled() {
		llmClient := openrouter.NewClient(
			&http.Client{Timeout: cfg.LLMTimeout},
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterBaseURL,
			cfg.LLMModel,
			cfg.LLMFallbackModels,
			logger,
		)
		opts = append(opts, app.WithNarrator(llmClient, cfg.LLMLang))
		logger.Info("narrator enabled", "model", cfg.LLMModel, "fallbacks", cfg.LLMFallbackModels)
	}

	svc := app.NewTarotService(cat, rng, logger, opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc, logger)
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

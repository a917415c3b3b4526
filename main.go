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

	"coffee-order/internal/config"
	"coffee-order/internal/database"
	"coffee-order/internal/logging"
	"coffee-order/internal/models"
	"coffee-order/internal/router"
	"coffee-order/internal/session"
	"coffee-order/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logging.Init("coffee-order", cfg.LogLevel)
	for _, w := range cfg.Warnings {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store = session.NewMemoryStore()
	if cfg.MongoURI != "" {
		client, err := database.Connect(cfg.MongoURI)
		if err != nil {
			slog.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.DBName)
		slog.Info("MongoDB connected", "database", db.Name())

		if err := database.EnsureSessionIndexes(db, cfg.SessionTTL); err != nil {
			slog.Warn("session index warning", "error", err)
		}
		store = session.NewMongoStore(db)
	}

	registry := session.NewRegistry(models.CoffeeMenu, store, cfg.SessionTTL)
	go registry.Run(ctx)

	sender := webhook.NewClient(cfg.WebhookURL, cfg.WebhookTimeout)
	defer sender.Close()

	r, err := router.NewRouter(router.Deps{
		Catalog:       models.CoffeeMenu,
		Registry:      registry,
		Sender:        sender,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		CORSOrigins:   cfg.CORSOrigins,
	})
	if err != nil {
		slog.Error("router setup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("coffee order form listening", "addr", srv.Addr, "webhook", sender.URL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"

	wallet "github.com/finova-trade/wallet"
	"github.com/finova-trade/wallet/internal/config"
	"github.com/finova-trade/wallet/internal/handler"
	"github.com/finova-trade/wallet/internal/notify"
	"github.com/finova-trade/wallet/internal/repository"
	"github.com/finova-trade/wallet/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(wallet.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and services
	ledgerRepo := repository.NewLedgerRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	promoService := service.NewPromoService(promoRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, promoService)
	userService := service.NewUserService(userRepo, promoService)

	if cfg.SeedPromoCodes {
		if err := promoService.SeedDefaults(ctx); err != nil {
			slog.Error("failed to seed promo codes", "error", err)
			os.Exit(1)
		}
	}

	// Operator notifications are optional
	var tgBot *bot.Bot
	if cfg.BotToken != "" {
		tgBot, err = bot.New(cfg.BotToken)
		if err != nil {
			slog.Error("failed to create telegram bot", "error", err)
			os.Exit(1)
		}
	}
	notifier := notify.NewTelegram(tgBot, cfg.OperatorChatIDs)

	h := handler.New(handler.Deps{
		Cfg:      cfg,
		Users:    userService,
		Ledger:   ledgerService,
		Promo:    promoService,
		Notifier: notifier,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vengeanceprashlesh/most-valuable-sub000/api/routes"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/config"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/handlers"
	mongorepo "github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories/mongodb"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/services"
	"github.com/vengeanceprashlesh/most-valuable-sub000/pkg/mongodb"
	"github.com/vengeanceprashlesh/most-valuable-sub000/pkg/notifier"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional, environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	entryRepo := mongorepo.NewEntryRepository(db)
	ticketRepo := mongorepo.NewTicketRepository(db)
	winnerRepo := mongorepo.NewWinnerRecordRepository(db)
	raffleRepo := mongorepo.NewRaffleConfigRepository(db)
	adminRepo := mongorepo.NewAdminUserRepository(db)
	notificationRepo := mongorepo.NewNotificationRepository(db)

	// Winner announcement gateway
	var gateway notifier.Notifier
	if cfg.Notification.Mock {
		gateway = notifier.NewMockNotifier()
	} else {
		gateway = notifier.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.WebhookAuthToken)
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo, gateway, cfg.Notification.AdminRecipient)
	ticketService := services.NewTicketService(entryRepo, ticketRepo)
	winnerService := services.NewWinnerService(raffleRepo, entryRepo, ticketRepo, winnerRepo, ticketService, notificationService)
	entryService := services.NewEntryService(entryRepo, ticketService, cfg.Raffle.DirectProductIDs)
	raffleService := services.NewRaffleService(raffleRepo, entryRepo)
	authService := services.NewAuthService(adminRepo, cfg)

	// Handlers
	h := &routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Entry:        handlers.NewEntryHandler(entryService),
		Ticket:       handlers.NewTicketHandler(ticketService),
		Winner:       handlers.NewWinnerHandler(winnerService),
		Raffle:       handlers.NewRaffleHandler(raffleService),
		Notification: handlers.NewNotificationHandler(notificationService),
	}

	router := routes.SetupRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

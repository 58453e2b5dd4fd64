package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/thesisflow/advisory/internal/app"
	"github.com/thesisflow/advisory/internal/config"
	"github.com/thesisflow/advisory/internal/controller"
	"github.com/thesisflow/advisory/internal/realtime"
	"github.com/thesisflow/advisory/internal/repository"
	"github.com/thesisflow/advisory/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	availabilityRepo := repository.NewAvailabilityRepository(pool)
	occupiedRepo := repository.NewOccupiedSlotRepository(pool)
	meetingRepo := repository.NewMeetingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	thesisRepo := repository.NewThesisRepository(pool)
	store := repository.NewReservationStore(pool, meetingRepo, occupiedRepo)

	hub := realtime.NewHub()
	publisher := realtime.Multi{hub}
	if cfg.TelegramToken != "" {
		telegram, err := realtime.NewTelegram(cfg.TelegramToken, thesisRepo, logger)
		if err != nil {
			logger.Fatal("failed to create telegram publisher", zap.Error(err))
		}
		publisher = append(publisher, telegram)
		logger.Info("telegram push enabled")
	}

	notifier := service.NewNotifier(notificationRepo, publisher, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, occupiedRepo, logger)
	meetingService := service.NewMeetingService(
		meetingRepo,
		availabilityRepo,
		occupiedRepo,
		store,
		thesisRepo,
		notifier,
		logger,
	)

	router := controller.NewRouter(availabilityService, meetingService, hub, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

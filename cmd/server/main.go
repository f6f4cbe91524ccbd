package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/campvisits/booking-engine/internal/app"
	"github.com/campvisits/booking-engine/internal/config"
	"github.com/campvisits/booking-engine/internal/controller/httpapi"
	"github.com/campvisits/booking-engine/internal/repository"
	"github.com/campvisits/booking-engine/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting booking engine",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	scheduleRepo := repository.NewScheduleRepository(pool, logger)
	bookingRepo := repository.NewBookingRepository(pool)

	scheduleService := service.NewScheduleService(scheduleRepo, bookingRepo, logger)
	generationService := service.NewGenerationService(scheduleRepo, bookingRepo, logger)

	scheduler := app.NewScheduler(generationService, cfg.HorizonDays, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := httpapi.NewApp(scheduleService, generationService, logger)

	go func() {
		if err := server.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := server.Shutdown(); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
}

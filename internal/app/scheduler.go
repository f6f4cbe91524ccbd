package app

import (
	"context"
	"time"

	"github.com/campvisits/booking-engine/internal/service"
	"go.uber.org/zap"
)

// Scheduler runs the daily background materialization for all active
// recurring schedules.
type Scheduler struct {
	generation  *service.GenerationService
	horizonDays int
	logger      *zap.Logger
	stopChan    chan struct{}
}

func NewScheduler(generation *service.GenerationService, horizonDays int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		generation:  generation,
		horizonDays: horizonDays,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the background generation task.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Int("horizon_days", s.horizonDays))

	go s.runGenerationTask(ctx)
}

// Stop stops the background task.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runGenerationTask generates bookings once at startup and then every 24
// hours, so upcoming visits always exist out to the configured horizon.
func (s *Scheduler) runGenerationTask(ctx context.Context) {
	s.generateAll(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.generateAll(ctx)
		case <-s.stopChan:
			s.logger.Info("Generation task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Generation task cancelled")
			return
		}
	}
}

func (s *Scheduler) generateAll(ctx context.Context) {
	s.logger.Info("Starting automatic booking generation")

	created, err := s.generation.GenerateForAllActiveSchedules(ctx, s.horizonDays)
	if err != nil {
		s.logger.Error("Failed to generate bookings", zap.Error(err))
		return
	}

	s.logger.Info("Automatic booking generation completed",
		zap.Int("created", created))
}

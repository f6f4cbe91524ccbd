package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/campvisits/booking-engine/internal/occurrence"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHorizonDays is how far ahead bookings are materialized when the
// caller does not ask for a specific horizon.
const DefaultHorizonDays = 30

// GenerationError records a single occurrence date whose booking could not be
// created.
type GenerationError struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// GenerationResult reports what one generate call did.
type GenerationResult struct {
	CreatedCount int               `json:"created_count"`
	CreatedDates []string          `json:"created_dates"`
	Errors       []GenerationError `json:"errors"`
}

// GenerationService materializes due occurrences of recurring schedules into
// concrete bookings, exactly once per (schedule, date).
type GenerationService struct {
	schedules ScheduleStore
	bookings  BookingStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewGenerationService(schedules ScheduleStore, bookings BookingStore, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		schedules: schedules,
		bookings:  bookings,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNowFunc replaces the time source, for deterministic tests.
func (s *GenerationService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Generate creates bookings for the schedule's due occurrences within
// [today, today+horizonDays) and advances the watermark.
//
// Duplicate dates (already materialized, e.g. by a concurrent call) are
// skipped silently and count as confirmed. A failed creation is recorded in
// the result and does not abort the remaining dates, but it pins the
// watermark: the watermark never advances past the first failed date, so the
// next run retries it instead of skipping it forever.
//
// An inactive schedule is not an error; the call returns a zero-effect result.
func (s *GenerationService) Generate(ctx context.Context, scheduleID uuid.UUID, horizonDays int) (*GenerationResult, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	// Slices start empty so the wire form is always an array, never null.
	result := &GenerationResult{
		CreatedDates: []string{},
		Errors:       []GenerationError{},
	}
	if !schedule.IsActive {
		s.logger.Debug("Schedule inactive, skipping generation",
			zap.String("schedule_id", scheduleID.String()))
		return result, nil
	}

	today := model.ToDate(s.now())
	windowEnd := today.AddDate(0, 0, horizonDays-1)

	dates, err := occurrence.Compute(schedule, today, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("compute occurrences: %w", err)
	}

	tmpl := schedule.Template()

	// watermark tracks the latest confirmed date (created or already
	// present). Once a creation fails, later confirmations no longer move it.
	var watermark time.Time
	blocked := false

	for _, date := range dates {
		created, _, err := s.bookings.CreateIfAbsent(ctx, scheduleID, date, tmpl)
		if err != nil {
			s.logger.Warn("Failed to create booking for occurrence",
				zap.String("schedule_id", scheduleID.String()),
				zap.Time("visit_date", date),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, GenerationError{
				Date:    date.Format(time.DateOnly),
				Message: err.Error(),
			})
			blocked = true
			continue
		}

		if created {
			result.CreatedCount++
			result.CreatedDates = append(result.CreatedDates, date.Format(time.DateOnly))
		}
		if !blocked {
			watermark = date
		}
	}

	if !watermark.IsZero() {
		if err := s.schedules.AdvanceWatermark(ctx, scheduleID, watermark); err != nil {
			return nil, fmt.Errorf("advance watermark: %w", err)
		}
	}

	s.logger.Info("Generated bookings for schedule",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int("occurrences", len(dates)),
		zap.Int("created", result.CreatedCount),
		zap.Int("failed", len(result.Errors)),
	)

	return result, nil
}

// GenerateForAllActiveSchedules runs Generate for every active schedule. One
// schedule's failure does not abort the others. Returns the total number of
// bookings created.
func (s *GenerationService) GenerateForAllActiveSchedules(ctx context.Context, horizonDays int) (int, error) {
	schedules, err := s.schedules.GetAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("get all active schedules: %w", err)
	}

	totalCreated := 0
	for _, schedule := range schedules {
		result, err := s.Generate(ctx, schedule.ID, horizonDays)
		if err != nil {
			s.logger.Error("Failed to generate bookings for schedule",
				zap.String("schedule_id", schedule.ID.String()),
				zap.Error(err),
			)
			continue
		}
		totalCreated += result.CreatedCount
	}

	s.logger.Info("Generated bookings for all active schedules",
		zap.Int("total_schedules", len(schedules)),
		zap.Int("total_created", totalCreated),
	)

	return totalCreated, nil
}

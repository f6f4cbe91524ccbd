package service

import (
	"context"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/google/uuid"
)

// ScheduleStore persists recurring schedules. Implemented by
// repository.ScheduleRepository.
type ScheduleStore interface {
	Create(ctx context.Context, schedule *model.RecurringSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringSchedule, error)
	List(ctx context.Context, activeOnly bool) ([]*model.RecurringSchedule, error)
	GetAllActive(ctx context.Context) ([]*model.RecurringSchedule, error)
	Update(ctx context.Context, schedule *model.RecurringSchedule) error
	AdvanceWatermark(ctx context.Context, id uuid.UUID, date time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingStore creates and lists generated bookings. Implemented by
// repository.BookingRepository. CreateIfAbsent must be atomic with respect to
// the (schedule id, visit date) uniqueness check.
type BookingStore interface {
	CreateIfAbsent(ctx context.Context, scheduleID uuid.UUID, visitDate time.Time, tmpl model.BookingTemplate) (bool, int64, error)
	GetByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]*model.Booking, error)
}

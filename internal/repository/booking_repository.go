package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/campvisits/booking-engine/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository manages generated bookings in the database.
type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// CreateIfAbsent inserts a booking for (scheduleID, visitDate) unless one
// already exists. The uniqueness check rides on the bookings table's
// (schedule_id, visit_date) constraint, so the insert-or-skip is atomic and
// safe under concurrent generate calls. Returns whether a row was created and
// the booking id when it was.
func (r *BookingRepository) CreateIfAbsent(ctx context.Context, scheduleID uuid.UUID, visitDate time.Time, tmpl model.BookingTemplate) (bool, int64, error) {
	query := `
		INSERT INTO bookings (visitor_name, visitor_email, visitor_phone, visit_date, visit_time,
			group_size, number_of_people, tour_type, source, schedule_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (schedule_id, visit_date) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.QueryRow(
		ctx, query,
		tmpl.VisitorName,
		tmpl.VisitorEmail,
		tmpl.VisitorPhone,
		visitDate,
		tmpl.VisitTime,
		tmpl.GroupSize,
		tmpl.NumberOfPeople,
		tmpl.TourType,
		model.BookingSourceRecurring,
		scheduleID,
	).Scan(&id)

	if base.IsNotFound(err) || base.IsUniqueViolation(err) {
		// Conflict: a booking for this schedule and date already exists.
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("create booking: %w", err)
	}

	return true, id, nil
}

// GetByScheduleID returns the bookings generated from a schedule, oldest
// visit first.
func (r *BookingRepository) GetByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT id, visitor_name, visitor_email, visitor_phone, visit_date, visit_time,
			group_size, number_of_people, tour_type, source, schedule_id, created_at, updated_at
		FROM bookings
		WHERE schedule_id = $1
		ORDER BY visit_date
	`

	rows, err := r.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by schedule: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking := &model.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.VisitorName,
			&booking.VisitorEmail,
			&booking.VisitorPhone,
			&booking.VisitDate,
			&booking.VisitTime,
			&booking.GroupSize,
			&booking.NumberOfPeople,
			&booking.TourType,
			&booking.Source,
			&booking.ScheduleID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

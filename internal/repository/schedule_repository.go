package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/campvisits/booking-engine/internal/repository/base"
	"github.com/campvisits/booking-engine/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const scheduleColumns = `id, organization_name, contact_name, contact_email, contact_phone,
		frequency, day_of_week, week_of_month, start_date, end_date, start_time,
		group_size, number_of_people, tour_type, last_generated_date, is_active,
		created_at, updated_at`

// ScheduleRepository manages recurring schedules in the database.
type ScheduleRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewScheduleRepository(pool *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create inserts a new recurring schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.RecurringSchedule) error {
	query := `
		INSERT INTO recurring_schedules (id, organization_name, contact_name, contact_email, contact_phone,
			frequency, day_of_week, week_of_month, start_date, end_date, start_time,
			group_size, number_of_people, tour_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		schedule.ID,
		schedule.OrganizationName,
		schedule.ContactName,
		schedule.ContactEmail,
		schedule.ContactPhone,
		schedule.Frequency,
		schedule.DayOfWeek,
		schedule.WeekOfMonth,
		schedule.StartDate,
		schedule.EndDate,
		schedule.StartTime,
		schedule.GroupSize,
		schedule.NumberOfPeople,
		schedule.TourType,
		schedule.IsActive,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create recurring schedule: %w", err)
	}

	return nil
}

// GetByID returns the schedule, or nil when it does not exist.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_schedules WHERE id = $1`

	schedule := &model.RecurringSchedule{}
	err := r.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.OrganizationName,
		&schedule.ContactName,
		&schedule.ContactEmail,
		&schedule.ContactPhone,
		&schedule.Frequency,
		&schedule.DayOfWeek,
		&schedule.WeekOfMonth,
		&schedule.StartDate,
		&schedule.EndDate,
		&schedule.StartTime,
		&schedule.GroupSize,
		&schedule.NumberOfPeople,
		&schedule.TourType,
		&schedule.LastGeneratedDate,
		&schedule.IsActive,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recurring schedule by id: %w", err)
	}

	return schedule, nil
}

// List returns schedules ordered by start date. With activeOnly set, inactive
// schedules are excluded.
func (r *ScheduleRepository) List(ctx context.Context, activeOnly bool) ([]*model.RecurringSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_schedules`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY start_date, created_at`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recurring schedules: %w", err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// GetAllActive returns every active schedule, ordered by start date.
func (r *ScheduleRepository) GetAllActive(ctx context.Context) ([]*model.RecurringSchedule, error) {
	return r.List(ctx, true)
}

// Update persists the mutable fields of a schedule. Frequency and the start
// date are fixed at creation and never touched here.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.RecurringSchedule) error {
	query := `
		UPDATE recurring_schedules
		SET organization_name = $2, contact_name = $3, contact_email = $4, contact_phone = $5,
			day_of_week = $6, week_of_month = $7, end_date = $8, start_time = $9,
			group_size = $10, number_of_people = $11, tour_type = $12, is_active = $13,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		schedule.ID,
		schedule.OrganizationName,
		schedule.ContactName,
		schedule.ContactEmail,
		schedule.ContactPhone,
		schedule.DayOfWeek,
		schedule.WeekOfMonth,
		schedule.EndDate,
		schedule.StartTime,
		schedule.GroupSize,
		schedule.NumberOfPeople,
		schedule.TourType,
		schedule.IsActive,
	).Scan(&schedule.UpdatedAt)

	if err != nil {
		// The row can vanish between the service's read and this update
		// when a delete lands in between.
		if base.IsNotFound(err) {
			return fmt.Errorf("update recurring schedule: %w", service.ErrScheduleNotFound)
		}
		return fmt.Errorf("update recurring schedule: %w", err)
	}

	return nil
}

// AdvanceWatermark moves last_generated_date forward to date. The guard keeps
// the watermark monotonic under concurrent generate calls: a stale caller
// updates nothing.
func (r *ScheduleRepository) AdvanceWatermark(ctx context.Context, id uuid.UUID, date time.Time) error {
	query := `
		UPDATE recurring_schedules
		SET last_generated_date = $2, updated_at = now()
		WHERE id = $1 AND (last_generated_date IS NULL OR last_generated_date < $2)
	`

	affected, err := r.ExecAffected(ctx, query, id, date)
	if err != nil {
		return fmt.Errorf("advance watermark: %w", err)
	}

	if affected == 0 {
		r.logger.Debug("Watermark not advanced, already at or past date",
			zap.String("schedule_id", id.String()),
			zap.Time("date", date))
	}

	return nil
}

// Delete removes the schedule. Deleting an absent schedule is a no-op.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM recurring_schedules WHERE id = $1`

	if _, err := r.ExecAffected(ctx, query, id); err != nil {
		return fmt.Errorf("delete recurring schedule: %w", err)
	}

	return nil
}

func scanSchedules(rows pgx.Rows) ([]*model.RecurringSchedule, error) {
	var schedules []*model.RecurringSchedule
	for rows.Next() {
		schedule := &model.RecurringSchedule{}
		err := rows.Scan(
			&schedule.ID,
			&schedule.OrganizationName,
			&schedule.ContactName,
			&schedule.ContactEmail,
			&schedule.ContactPhone,
			&schedule.Frequency,
			&schedule.DayOfWeek,
			&schedule.WeekOfMonth,
			&schedule.StartDate,
			&schedule.EndDate,
			&schedule.StartTime,
			&schedule.GroupSize,
			&schedule.NumberOfPeople,
			&schedule.TourType,
			&schedule.LastGeneratedDate,
			&schedule.IsActive,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recurring schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	return schedules, rows.Err()
}

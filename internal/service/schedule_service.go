package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateScheduleInput is the request to create a recurring schedule. Dates are
// YYYY-MM-DD, times HH:MM.
type CreateScheduleInput struct {
	OrganizationName string `json:"organization_name" validate:"max=200"`
	ContactName      string `json:"contact_name" validate:"required,max=200"`
	ContactEmail     string `json:"contact_email" validate:"required,email"`
	ContactPhone     string `json:"contact_phone" validate:"max=50"`
	Frequency        string `json:"frequency" validate:"required,oneof=weekly monthly"`
	DayOfWeek        *int   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	WeekOfMonth      *int   `json:"week_of_month"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime        string `json:"start_time" validate:"required,datetime=15:04"`
	GroupSize        string `json:"group_size" validate:"max=50"`
	NumberOfPeople   int    `json:"number_of_people" validate:"required,min=1"`
	TourType         string `json:"tour_type" validate:"required,max=100"`
}

// UpdateScheduleInput is a partial update; nil fields are left untouched.
// Frequency is present only so that attempts to change it can be rejected
// explicitly instead of being silently ignored.
type UpdateScheduleInput struct {
	Frequency        *string `json:"frequency"`
	OrganizationName *string `json:"organization_name" validate:"omitempty,max=200"`
	ContactName      *string `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone     *string `json:"contact_phone" validate:"omitempty,max=50"`
	DayOfWeek        *int    `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	WeekOfMonth      *int    `json:"week_of_month"`
	EndDate          *string `json:"end_date"` // empty string clears the end date
	StartTime        *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	GroupSize        *string `json:"group_size" validate:"omitempty,max=50"`
	NumberOfPeople   *int    `json:"number_of_people" validate:"omitempty,min=1"`
	TourType         *string `json:"tour_type" validate:"omitempty,max=100"`
	IsActive         *bool   `json:"is_active"`
}

// ScheduleService owns the recurring-schedule lifecycle: validated create,
// partial update, idempotent delete, listing.
type ScheduleService struct {
	schedules ScheduleStore
	bookings  BookingStore
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewScheduleService(schedules ScheduleStore, bookings BookingStore, logger *zap.Logger) *ScheduleService {
	v := validator.New()
	// Report violations under the wire field names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ScheduleService{
		schedules: schedules,
		bookings:  bookings,
		validate:  v,
		logger:    logger,
	}
}

// Create validates the input and persists a new schedule. All violated fields
// are reported together in a single ValidationError.
func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (*model.RecurringSchedule, error) {
	fields := s.structFields(input)
	fields = append(fields, createRuleViolations(input)...)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	startDate, err := time.Parse(time.DateOnly, input.StartDate)
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"},
		}}
	}
	schedule := &model.RecurringSchedule{
		ID:               uuid.New(),
		OrganizationName: input.OrganizationName,
		ContactName:      input.ContactName,
		ContactEmail:     input.ContactEmail,
		ContactPhone:     input.ContactPhone,
		Frequency:        model.Frequency(input.Frequency),
		DayOfWeek:        input.DayOfWeek,
		WeekOfMonth:      input.WeekOfMonth,
		StartDate:        model.ToDate(startDate),
		StartTime:        input.StartTime,
		GroupSize:        input.GroupSize,
		NumberOfPeople:   input.NumberOfPeople,
		TourType:         input.TourType,
		IsActive:         true,
	}
	if input.EndDate != "" {
		endDate, err := time.Parse(time.DateOnly, input.EndDate)
		if err != nil {
			return nil, &ValidationError{Fields: []FieldError{
				{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"},
			}}
		}
		endDate = model.ToDate(endDate)
		schedule.EndDate = &endDate
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.logger.Info("Recurring schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("frequency", string(schedule.Frequency)),
		zap.Time("start_date", schedule.StartDate),
	)

	return schedule, nil
}

// Update applies a partial update. Changing the frequency is rejected:
// changing cadence retroactively makes already-generated bookings ambiguous,
// so a cadence change means a new schedule.
func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, input UpdateScheduleInput) (*model.RecurringSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	fields := s.structFields(input)
	if input.Frequency != nil && model.Frequency(*input.Frequency) != schedule.Frequency {
		fields = append(fields, FieldError{Field: "frequency", Message: "is immutable; create a new schedule to change cadence"})
	}
	if input.EndDate != nil && *input.EndDate != "" {
		if _, err := time.Parse(time.DateOnly, *input.EndDate); err != nil {
			fields = append(fields, FieldError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	applyPatch(schedule, input)
	fields = append(fields, scheduleRuleViolations(schedule)...)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	s.logger.Info("Recurring schedule updated",
		zap.String("schedule_id", id.String()),
		zap.Bool("is_active", schedule.IsActive),
	)

	return schedule, nil
}

// Delete removes a schedule. Already-generated bookings are independently
// owned and stay. Deleting an absent schedule is a no-op.
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	s.logger.Info("Recurring schedule deleted",
		zap.String("schedule_id", id.String()))

	return nil
}

// GetByID returns a schedule or ErrScheduleNotFound.
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

// List returns schedules ordered by start date.
func (s *ScheduleService) List(ctx context.Context, activeOnly bool) ([]*model.RecurringSchedule, error) {
	return s.schedules.List(ctx, activeOnly)
}

// ListBookings returns the bookings generated from a schedule, for
// traceability.
func (s *ScheduleService) ListBookings(ctx context.Context, id uuid.UUID) ([]*model.Booking, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return s.bookings.GetByScheduleID(ctx, id)
}

// structFields runs tag validation and converts violations to FieldErrors.
func (s *ScheduleService) structFields(input any) []FieldError {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: tagMessage(fe)})
	}
	return fields
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		if fe.Param() == "15:04" {
			return "must be a time in HH:MM format"
		}
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// createRuleViolations checks the cross-field invariants tag validation
// cannot express.
func createRuleViolations(input CreateScheduleInput) []FieldError {
	var fields []FieldError

	switch model.Frequency(input.Frequency) {
	case model.FrequencyWeekly:
		if input.DayOfWeek == nil {
			fields = append(fields, FieldError{Field: "day_of_week", Message: "is required for weekly schedules"})
		}
		if input.WeekOfMonth != nil {
			fields = append(fields, FieldError{Field: "week_of_month", Message: "only applies to monthly schedules"})
		}
	case model.FrequencyMonthly:
		if input.WeekOfMonth != nil {
			fields = append(fields, weekOfMonthViolations(*input.WeekOfMonth, input.DayOfWeek)...)
		}
	}

	if input.StartDate != "" && input.EndDate != "" {
		start, err1 := time.Parse(time.DateOnly, input.StartDate)
		end, err2 := time.Parse(time.DateOnly, input.EndDate)
		if err1 == nil && err2 == nil && end.Before(start) {
			fields = append(fields, FieldError{Field: "end_date", Message: "must not precede start_date"})
		}
	}

	return fields
}

// scheduleRuleViolations re-checks cross-field invariants on a patched
// schedule before it is persisted.
func scheduleRuleViolations(schedule *model.RecurringSchedule) []FieldError {
	var fields []FieldError

	switch schedule.Frequency {
	case model.FrequencyWeekly:
		if schedule.DayOfWeek == nil {
			fields = append(fields, FieldError{Field: "day_of_week", Message: "is required for weekly schedules"})
		}
		if schedule.WeekOfMonth != nil {
			fields = append(fields, FieldError{Field: "week_of_month", Message: "only applies to monthly schedules"})
		}
	case model.FrequencyMonthly:
		if schedule.WeekOfMonth != nil {
			fields = append(fields, weekOfMonthViolations(*schedule.WeekOfMonth, schedule.DayOfWeek)...)
		}
	}

	if schedule.EndDate != nil && schedule.EndDate.Before(schedule.StartDate) {
		fields = append(fields, FieldError{Field: "end_date", Message: "must not precede start_date"})
	}

	return fields
}

func weekOfMonthViolations(week int, dayOfWeek *int) []FieldError {
	var fields []FieldError
	if week != model.WeekOfMonthLast && (week < 1 || week > 5) {
		fields = append(fields, FieldError{Field: "week_of_month", Message: "must be between 1 and 5, or -1 for the last week"})
	}
	if dayOfWeek == nil {
		fields = append(fields, FieldError{Field: "day_of_week", Message: "is required when week_of_month is set"})
	}
	return fields
}

func applyPatch(schedule *model.RecurringSchedule, input UpdateScheduleInput) {
	if input.OrganizationName != nil {
		schedule.OrganizationName = *input.OrganizationName
	}
	if input.ContactName != nil {
		schedule.ContactName = *input.ContactName
	}
	if input.ContactEmail != nil {
		schedule.ContactEmail = *input.ContactEmail
	}
	if input.ContactPhone != nil {
		schedule.ContactPhone = *input.ContactPhone
	}
	if input.DayOfWeek != nil {
		schedule.DayOfWeek = input.DayOfWeek
	}
	if input.WeekOfMonth != nil {
		schedule.WeekOfMonth = input.WeekOfMonth
	}
	if input.EndDate != nil {
		if *input.EndDate == "" {
			schedule.EndDate = nil
		} else if endDate, err := time.Parse(time.DateOnly, *input.EndDate); err == nil {
			d := model.ToDate(endDate)
			schedule.EndDate = &d
		}
	}
	if input.StartTime != nil {
		schedule.StartTime = *input.StartTime
	}
	if input.GroupSize != nil {
		schedule.GroupSize = *input.GroupSize
	}
	if input.NumberOfPeople != nil {
		schedule.NumberOfPeople = *input.NumberOfPeople
	}
	if input.TourType != nil {
		schedule.TourType = *input.TourType
	}
	if input.IsActive != nil {
		schedule.IsActive = *input.IsActive
	}
}

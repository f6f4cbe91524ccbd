package httpapi

import (
	"errors"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/campvisits/booking-engine/internal/service"
	"github.com/gofiber/fiber/v2"
)

// scheduleResponse is the wire form of a schedule: calendar dates as
// YYYY-MM-DD strings, never timestamps.
type scheduleResponse struct {
	ID                string  `json:"id"`
	OrganizationName  string  `json:"organization_name"`
	ContactName       string  `json:"contact_name"`
	ContactEmail      string  `json:"contact_email"`
	ContactPhone      string  `json:"contact_phone"`
	Frequency         string  `json:"frequency"`
	DayOfWeek         *int    `json:"day_of_week"`
	WeekOfMonth       *int    `json:"week_of_month"`
	StartDate         string  `json:"start_date"`
	EndDate           *string `json:"end_date"`
	StartTime         string  `json:"start_time"`
	GroupSize         string  `json:"group_size"`
	NumberOfPeople    int     `json:"number_of_people"`
	TourType          string  `json:"tour_type"`
	LastGeneratedDate *string `json:"last_generated_date"`
	IsActive          bool    `json:"is_active"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type bookingResponse struct {
	ID             int64  `json:"id"`
	VisitorName    string `json:"visitor_name"`
	VisitorEmail   string `json:"visitor_email"`
	VisitorPhone   string `json:"visitor_phone"`
	VisitDate      string `json:"visit_date"`
	VisitTime      string `json:"visit_time"`
	GroupSize      string `json:"group_size"`
	NumberOfPeople int    `json:"number_of_people"`
	TourType       string `json:"tour_type"`
	Source         string `json:"source"`
	ScheduleID     string `json:"schedule_id"`
}

func toScheduleResponse(s *model.RecurringSchedule) scheduleResponse {
	return scheduleResponse{
		ID:                s.ID.String(),
		OrganizationName:  s.OrganizationName,
		ContactName:       s.ContactName,
		ContactEmail:      s.ContactEmail,
		ContactPhone:      s.ContactPhone,
		Frequency:         string(s.Frequency),
		DayOfWeek:         s.DayOfWeek,
		WeekOfMonth:       s.WeekOfMonth,
		StartDate:         s.StartDate.Format(time.DateOnly),
		EndDate:           dateString(s.EndDate),
		StartTime:         s.StartTime,
		GroupSize:         s.GroupSize,
		NumberOfPeople:    s.NumberOfPeople,
		TourType:          s.TourType,
		LastGeneratedDate: dateString(s.LastGeneratedDate),
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         s.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		VisitorName:    b.VisitorName,
		VisitorEmail:   b.VisitorEmail,
		VisitorPhone:   b.VisitorPhone,
		VisitDate:      b.VisitDate.Format(time.DateOnly),
		VisitTime:      b.VisitTime,
		GroupSize:      b.GroupSize,
		NumberOfPeople: b.NumberOfPeople,
		TourType:       b.TourType,
		Source:         b.Source,
		ScheduleID:     b.ScheduleID.String(),
	}
}

func dateString(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(time.DateOnly)
	return &s
}

// writeError maps service errors onto HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	if ve, ok := service.AsValidationError(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation_failed",
			"fields": ve.Fields,
		})
	}
	if errors.Is(err, service.ErrScheduleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "schedule_not_found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal_error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

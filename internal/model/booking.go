package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingSourceRecurring tags bookings materialized from a recurring schedule.
const BookingSourceRecurring = "recurring_schedule"

type Booking struct {
	ID             int64     `json:"id"`
	VisitorName    string    `json:"visitor_name"`
	VisitorEmail   string    `json:"visitor_email"`
	VisitorPhone   string    `json:"visitor_phone"`
	VisitDate      time.Time `json:"visit_date"` // calendar date, midnight UTC
	VisitTime      string    `json:"visit_time"` // HH:MM
	GroupSize      string    `json:"group_size"`
	NumberOfPeople int       `json:"number_of_people"`
	TourType       string    `json:"tour_type"`
	Source         string    `json:"source"`
	// ScheduleID is a weak back-reference for traceability; deleting the
	// schedule does not retract the booking.
	ScheduleID uuid.UUID `json:"schedule_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookingTemplate carries the schedule fields copied verbatim onto every
// generated booking.
type BookingTemplate struct {
	VisitorName    string
	VisitorEmail   string
	VisitorPhone   string
	VisitTime      string
	GroupSize      string
	NumberOfPeople int
	TourType       string
}

// Template extracts the booking template from a schedule. The organization
// name wins over the contact name when present, matching how group visits are
// displayed in the bookings list.
func (s *RecurringSchedule) Template() BookingTemplate {
	name := s.ContactName
	if s.OrganizationName != "" {
		name = s.OrganizationName
	}
	return BookingTemplate{
		VisitorName:    name,
		VisitorEmail:   s.ContactEmail,
		VisitorPhone:   s.ContactPhone,
		VisitTime:      s.StartTime,
		GroupSize:      s.GroupSize,
		NumberOfPeople: s.NumberOfPeople,
		TourType:       s.TourType,
	}
}

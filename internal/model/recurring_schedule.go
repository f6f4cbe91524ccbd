package model

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is the cadence of a recurring schedule.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// WeekOfMonthLast selects the last occurrence of the weekday in a month.
const WeekOfMonthLast = -1

// RecurringSchedule is a template from which concrete bookings are generated.
type RecurringSchedule struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationName string     `json:"organization_name"`
	ContactName      string     `json:"contact_name"`
	ContactEmail     string     `json:"contact_email"`
	ContactPhone     string     `json:"contact_phone"`
	Frequency        Frequency  `json:"frequency"`     // immutable after creation
	DayOfWeek        *int       `json:"day_of_week"`   // 0 = Sunday, 6 = Saturday; required for weekly
	WeekOfMonth      *int       `json:"week_of_month"` // 1-5, or -1 for "last"; monthly only
	StartDate        time.Time  `json:"start_date"`    // calendar date, midnight UTC
	EndDate          *time.Time `json:"end_date"`      // exclusive; no occurrences on or after it
	StartTime        string     `json:"start_time"`    // HH:MM, camp-local wall clock
	GroupSize        string     `json:"group_size"`
	NumberOfPeople   int        `json:"number_of_people"`
	TourType         string     `json:"tour_type"`
	// LastGeneratedDate is the watermark: the latest occurrence date already
	// materialized. Nil until the first generation.
	LastGeneratedDate *time.Time `json:"last_generated_date"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Date builds a naive calendar date (midnight UTC). Visit dates are camp-local
// calendar dates, never instants, so no zone conversion happens anywhere.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToDate truncates t to its calendar date.
func ToDate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Package occurrence expands recurring schedules into concrete visit dates.
// It is pure calendar arithmetic: no I/O, no clock reads, no timezone
// conversion. All dates are naive calendar dates carried as midnight UTC.
package occurrence

import (
	"errors"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
)

// ErrInvalidWindow indicates windowEnd precedes windowStart.
var ErrInvalidWindow = errors.New("occurrence: window end before window start")

// ErrInvalidFrequency indicates the schedule frequency is not supported.
var ErrInvalidFrequency = errors.New("occurrence: invalid frequency")

// ErrMissingDayOfWeek indicates a weekly schedule without a weekday.
var ErrMissingDayOfWeek = errors.New("occurrence: weekly schedule has no day_of_week")

// Compute returns the ordered visit dates implied by the schedule within
// [windowStart, windowEnd], both inclusive calendar dates.
//
// The effective range is narrowed before expansion:
//   - lower bound: the latest of windowStart, the schedule's start date, and
//     the day after the watermark — dates at or before the watermark are
//     never re-emitted;
//   - upper bound: the day before the schedule's end date, when one is set.
//
// An empty effective range yields an empty result, not an error.
func Compute(s *model.RecurringSchedule, windowStart, windowEnd time.Time) ([]time.Time, error) {
	windowStart = model.ToDate(windowStart)
	windowEnd = model.ToDate(windowEnd)
	if windowEnd.Before(windowStart) {
		return nil, ErrInvalidWindow
	}

	lower := windowStart
	if start := model.ToDate(s.StartDate); start.After(lower) {
		lower = start
	}
	if s.LastGeneratedDate != nil {
		if next := model.ToDate(*s.LastGeneratedDate).AddDate(0, 0, 1); next.After(lower) {
			lower = next
		}
	}

	upper := windowEnd
	if s.EndDate != nil {
		if last := model.ToDate(*s.EndDate).AddDate(0, 0, -1); last.Before(upper) {
			upper = last
		}
	}

	if lower.After(upper) {
		return nil, nil
	}

	switch s.Frequency {
	case model.FrequencyWeekly:
		if s.DayOfWeek == nil {
			return nil, ErrMissingDayOfWeek
		}
		return weeklyDates(time.Weekday(*s.DayOfWeek), lower, upper), nil
	case model.FrequencyMonthly:
		if s.WeekOfMonth != nil {
			if s.DayOfWeek == nil {
				return nil, ErrMissingDayOfWeek
			}
			return nthWeekdayDates(time.Weekday(*s.DayOfWeek), *s.WeekOfMonth, lower, upper), nil
		}
		return dayOfMonthDates(s.StartDate.Day(), lower, upper), nil
	default:
		return nil, ErrInvalidFrequency
	}
}

// weeklyDates emits every date in [lower, upper] falling on the weekday.
func weeklyDates(weekday time.Weekday, lower, upper time.Time) []time.Time {
	offset := (int(weekday) - int(lower.Weekday()) + 7) % 7
	var dates []time.Time
	for d := lower.AddDate(0, 0, offset); !d.After(upper); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}
	return dates
}

// dayOfMonthDates emits one date per month matching the anchor day-of-month,
// clamped to the last day of shorter months (an anchor of 31 emits Feb 28/29).
func dayOfMonthDates(anchorDay int, lower, upper time.Time) []time.Time {
	var dates []time.Time
	year, month := lower.Year(), lower.Month()
	for {
		day := anchorDay
		if last := daysIn(year, month); day > last {
			day = last
		}
		d := model.Date(year, month, day)
		if d.After(upper) {
			return dates
		}
		if !d.Before(lower) {
			dates = append(dates, d)
		}
		year, month = nextMonth(year, month)
	}
}

// nthWeekdayDates emits the Nth occurrence of the weekday in each month, or
// the last occurrence when week is model.WeekOfMonthLast. Months with fewer
// than N such weekdays emit nothing.
func nthWeekdayDates(weekday time.Weekday, week int, lower, upper time.Time) []time.Time {
	var dates []time.Time
	year, month := lower.Year(), lower.Month()
	for {
		day := nthWeekdayOfMonth(year, month, weekday, week)
		if day != 0 {
			d := model.Date(year, month, day)
			if d.After(upper) {
				return dates
			}
			if !d.Before(lower) {
				dates = append(dates, d)
			}
		} else if model.Date(year, month, 1).After(upper) {
			return dates
		}
		year, month = nextMonth(year, month)
	}
}

// nthWeekdayOfMonth returns the day-of-month of the Nth weekday, the last
// weekday for week == model.WeekOfMonthLast, or 0 when the month has no Nth
// occurrence.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, week int) int {
	last := daysIn(year, month)
	if week == model.WeekOfMonthLast {
		lastWeekday := model.Date(year, month, last).Weekday()
		return last - (int(lastWeekday)-int(weekday)+7)%7
	}
	firstWeekday := model.Date(year, month, 1).Weekday()
	day := 1 + (int(weekday)-int(firstWeekday)+7)%7 + (week-1)*7
	if day > last {
		return 0
	}
	return day
}

// daysIn returns the number of days in the month; day 0 of the next month is
// the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

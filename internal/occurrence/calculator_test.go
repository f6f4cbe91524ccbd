package occurrence

import (
	"testing"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	d := model.Date(year, month, day)
	return &d
}

func weeklySchedule(weekday int, start time.Time) *model.RecurringSchedule {
	return &model.RecurringSchedule{
		Frequency: model.FrequencyWeekly,
		DayOfWeek: intPtr(weekday),
		StartDate: start,
	}
}

func TestComputeWeekly(t *testing.T) {
	// Fridays starting 2026-01-02, two weeks from New Year.
	s := weeklySchedule(5, model.Date(2026, time.January, 2))

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.January, 14))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 2),
		model.Date(2026, time.January, 9),
	}, dates)
}

func TestComputeWeeklyRespectsStartDate(t *testing.T) {
	s := weeklySchedule(1, model.Date(2026, time.February, 16))

	dates, err := Compute(s, model.Date(2026, time.February, 1), model.Date(2026, time.February, 28))
	require.NoError(t, err)

	// Mondays in February 2026 are the 2nd, 9th, 16th and 23rd; the first two
	// precede the schedule start.
	assert.Equal(t, []time.Time{
		model.Date(2026, time.February, 16),
		model.Date(2026, time.February, 23),
	}, dates)
}

func TestComputeWeeklyWatermarkExcluded(t *testing.T) {
	s := weeklySchedule(5, model.Date(2026, time.January, 2))
	s.LastGeneratedDate = datePtr(2026, time.January, 9)

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.January, 31))
	require.NoError(t, err)

	// Nothing at or before the watermark is re-emitted.
	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 16),
		model.Date(2026, time.January, 23),
		model.Date(2026, time.January, 30),
	}, dates)
}

func TestComputeWeeklyEndDateExclusive(t *testing.T) {
	s := weeklySchedule(0, model.Date(2026, time.January, 4))
	s.EndDate = datePtr(2026, time.February, 1)

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.March, 1))
	require.NoError(t, err)

	// 2026-02-01 is a Sunday but falls on the end date, so it must not emit.
	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 4),
		model.Date(2026, time.January, 11),
		model.Date(2026, time.January, 18),
		model.Date(2026, time.January, 25),
	}, dates)
}

func TestComputeMonthlyClampsShortMonths(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency: model.FrequencyMonthly,
		StartDate: model.Date(2026, time.January, 31),
	}

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.March, 31))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 31),
		model.Date(2026, time.February, 28),
		model.Date(2026, time.March, 31),
	}, dates)
}

func TestComputeMonthlyClampLeapYear(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency: model.FrequencyMonthly,
		StartDate: model.Date(2028, time.January, 30),
	}

	dates, err := Compute(s, model.Date(2028, time.February, 1), model.Date(2028, time.February, 29))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{model.Date(2028, time.February, 29)}, dates)
}

func TestComputeMonthlyMidMonthNoClamp(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency: model.FrequencyMonthly,
		StartDate: model.Date(2026, time.January, 15),
	}

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.April, 30))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 15),
		model.Date(2026, time.February, 15),
		model.Date(2026, time.March, 15),
		model.Date(2026, time.April, 15),
	}, dates)
}

func TestComputeLastWeekdayOfMonth(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency:   model.FrequencyMonthly,
		DayOfWeek:   intPtr(1), // Monday
		WeekOfMonth: intPtr(model.WeekOfMonthLast),
		StartDate:   model.Date(2026, time.March, 1),
	}

	dates, err := Compute(s, model.Date(2026, time.March, 1), model.Date(2026, time.March, 31))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{model.Date(2026, time.March, 30)}, dates)
}

func TestComputeNthWeekdayOfMonth(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency:   model.FrequencyMonthly,
		DayOfWeek:   intPtr(3), // Wednesday
		WeekOfMonth: intPtr(2),
		StartDate:   model.Date(2026, time.January, 1),
	}

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.March, 31))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 14),
		model.Date(2026, time.February, 11),
		model.Date(2026, time.March, 11),
	}, dates)
}

func TestComputeFifthWeekdaySkipsShortMonths(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency:   model.FrequencyMonthly,
		DayOfWeek:   intPtr(6), // Saturday
		WeekOfMonth: intPtr(5),
		StartDate:   model.Date(2026, time.January, 1),
	}

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.June, 30))
	require.NoError(t, err)

	// Only January (Jan 31) and May (May 30) of early 2026 have five Saturdays.
	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 31),
		model.Date(2026, time.May, 30),
	}, dates)
}

func TestComputeEmptyEffectiveRange(t *testing.T) {
	s := weeklySchedule(5, model.Date(2026, time.June, 1))

	dates, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestComputeInvalidWindow(t *testing.T) {
	s := weeklySchedule(5, model.Date(2026, time.January, 2))

	_, err := Compute(s, model.Date(2026, time.February, 1), model.Date(2026, time.January, 1))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestComputeWeeklyWithoutWeekday(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency: model.FrequencyWeekly,
		StartDate: model.Date(2026, time.January, 1),
	}

	_, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.January, 31))
	assert.ErrorIs(t, err, ErrMissingDayOfWeek)
}

func TestComputeUnknownFrequency(t *testing.T) {
	s := &model.RecurringSchedule{
		Frequency: "daily",
		StartDate: model.Date(2026, time.January, 1),
	}

	_, err := Compute(s, model.Date(2026, time.January, 1), model.Date(2026, time.January, 31))
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestComputeStripsTimeOfDay(t *testing.T) {
	s := weeklySchedule(5, model.Date(2026, time.January, 2))

	dates, err := Compute(s,
		time.Date(2026, time.January, 1, 17, 30, 0, 0, time.UTC),
		time.Date(2026, time.January, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		model.Date(2026, time.January, 2),
		model.Date(2026, time.January, 9),
	}, dates)
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/campvisits/booking-engine/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeScheduleStore is an in-memory ScheduleStore.
type fakeScheduleStore struct {
	schedules map[uuid.UUID]*model.RecurringSchedule
	getErr    error
	updateErr error
}

func newFakeScheduleStore(schedules ...*model.RecurringSchedule) *fakeScheduleStore {
	store := &fakeScheduleStore{schedules: make(map[uuid.UUID]*model.RecurringSchedule)}
	for _, s := range schedules {
		store.schedules[s.ID] = s
	}
	return store
}

func (f *fakeScheduleStore) Create(_ context.Context, schedule *model.RecurringSchedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = schedule.CreatedAt
	f.schedules[schedule.ID] = schedule
	return nil
}

func (f *fakeScheduleStore) GetByID(_ context.Context, id uuid.UUID) (*model.RecurringSchedule, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	schedule, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	copied := *schedule
	return &copied, nil
}

func (f *fakeScheduleStore) List(_ context.Context, activeOnly bool) ([]*model.RecurringSchedule, error) {
	var out []*model.RecurringSchedule
	for _, s := range f.schedules {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeScheduleStore) GetAllActive(ctx context.Context) ([]*model.RecurringSchedule, error) {
	return f.List(ctx, true)
}

func (f *fakeScheduleStore) Update(_ context.Context, schedule *model.RecurringSchedule) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	existing, ok := f.schedules[schedule.ID]
	if !ok {
		return fmt.Errorf("update recurring schedule: %w", ErrScheduleNotFound)
	}
	copied := *schedule
	copied.LastGeneratedDate = existing.LastGeneratedDate
	copied.UpdatedAt = time.Now()
	f.schedules[schedule.ID] = &copied
	return nil
}

func (f *fakeScheduleStore) AdvanceWatermark(_ context.Context, id uuid.UUID, date time.Time) error {
	schedule, ok := f.schedules[id]
	if !ok {
		return nil
	}
	// Same monotonic guard as the SQL implementation.
	if schedule.LastGeneratedDate == nil || schedule.LastGeneratedDate.Before(date) {
		d := date
		schedule.LastGeneratedDate = &d
	}
	return nil
}

func (f *fakeScheduleStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.schedules, id)
	return nil
}

func (f *fakeScheduleStore) watermark(id uuid.UUID) *time.Time {
	return f.schedules[id].LastGeneratedDate
}

// fakeBookingStore is an in-memory BookingStore with per-date injectable
// failures.
type fakeBookingStore struct {
	bookings map[string]*model.Booking
	failOn   map[string]error
	nextID   int64
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		bookings: make(map[string]*model.Booking),
		failOn:   make(map[string]error),
	}
}

func bookingKey(scheduleID uuid.UUID, date time.Time) string {
	return scheduleID.String() + "|" + date.Format(time.DateOnly)
}

func (f *fakeBookingStore) failDate(date time.Time, err error) {
	f.failOn[date.Format(time.DateOnly)] = err
}

func (f *fakeBookingStore) CreateIfAbsent(_ context.Context, scheduleID uuid.UUID, visitDate time.Time, tmpl model.BookingTemplate) (bool, int64, error) {
	if err, ok := f.failOn[visitDate.Format(time.DateOnly)]; ok {
		return false, 0, err
	}
	key := bookingKey(scheduleID, visitDate)
	if _, ok := f.bookings[key]; ok {
		return false, 0, nil
	}
	f.nextID++
	f.bookings[key] = &model.Booking{
		ID:             f.nextID,
		VisitorName:    tmpl.VisitorName,
		VisitorEmail:   tmpl.VisitorEmail,
		VisitorPhone:   tmpl.VisitorPhone,
		VisitDate:      visitDate,
		VisitTime:      tmpl.VisitTime,
		GroupSize:      tmpl.GroupSize,
		NumberOfPeople: tmpl.NumberOfPeople,
		TourType:       tmpl.TourType,
		Source:         model.BookingSourceRecurring,
		ScheduleID:     scheduleID,
	}
	return true, f.nextID, nil
}

func (f *fakeBookingStore) GetByScheduleID(_ context.Context, scheduleID uuid.UUID) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.ScheduleID == scheduleID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.Before(out[j].VisitDate) })
	return out, nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

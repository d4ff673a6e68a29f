package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const bookingID = "6f1c2a7e-3b44-4d1a-9b7e-2f0c9d8e5a11"

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	bookings    map[string]*domain.Booking
	lastFilter  domain.BookingsFilter
	rescheduled bool
	cancelled   string
	status      domain.BookingStatus
	updateErr   error
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	result := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, _ string, status domain.BookingStatus) error {
	f.status = status
	return f.updateErr
}

func (f *fakeRepo) Cancel(_ context.Context, _ string, reason string) error {
	f.cancelled = reason
	return f.updateErr
}

func (f *fakeRepo) Reschedule(context.Context, string, civil.Date, time.Time, time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rescheduled = true
	return nil
}

type fakeCommitments struct {
	busy []domain.BusyInterval
}

func (f *fakeCommitments) Fetch(context.Context, civil.Date, domain.ScheduleConfig) ([]domain.BusyInterval, error) {
	return f.busy, nil
}

type fakeLocker struct {
	err      error
	released int
}

func (f *fakeLocker) Lock(context.Context, civil.Date) (func(context.Context) error, error) {
	if f.err != nil {
		return nil, f.err
	}
	return func(context.Context) error {
		f.released++
		return nil
	}, nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc         *Service
	repo        *fakeRepo
	commitments *fakeCommitments
	locker      *fakeLocker
	loc         *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	cfg := domain.ScheduleConfig{
		Hours:               schedule.DefaultWeek(),
		BufferMinutes:       15,
		SlotIntervalMinutes: 30,
		BookingWindowDays:   60,
		Location:            loc,
	}

	start := time.Date(2026, time.October, 20, 10, 0, 0, 0, loc)
	existing := &domain.Booking{
		ID:              bookingID,
		ServiceID:       "consultation",
		CustomerName:    "Jordan Lee",
		CustomerEmail:   "jordan@example.com",
		BookingDate:     civil.Date{Year: 2026, Month: time.October, Day: 20},
		StartAt:         start.UTC(),
		EndAt:           start.Add(time.Hour).UTC(),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}

	f := &fixture{
		repo:        &fakeRepo{bookings: map[string]*domain.Booking{bookingID: existing}},
		commitments: &fakeCommitments{busy: []domain.BusyInterval{existing.BusyInterval()}},
		locker:      &fakeLocker{},
		loc:         loc,
	}
	f.svc = NewService(f.repo, f.commitments, f.locker, fakeTx{}, cfg, logger.Nop())
	f.svc.timeProvider = fixedTime{now: time.Date(2026, time.October, 18, 12, 0, 0, 0, loc)}
	return f
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, "10:00 AM", resp.DisplayTime)
	assert.Equal(t, "2026-10-20", resp.BookingDate)

	_, err = f.svc.GetByID(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.GetByID(context.Background(), "0b7d3c1e-1111-4222-8333-944455556666")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListByDate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ListByDate(context.Background(), &models.ListBookingsRequest{Date: "2026-10-20"})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	require.NotNil(t, f.repo.lastFilter.Date)
	assert.Equal(t, "2026-10-20", f.repo.lastFilter.Date.String())
	assert.Nil(t, f.repo.lastFilter.Status)

	status := "bogus"
	_, err = f.svc.ListByDate(context.Background(), &models.ListBookingsRequest{Date: "2026-10-20", Status: &status})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ListByDate(context.Background(), &models.ListBookingsRequest{Date: "20-10-2026"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UpdateStatus(context.Background(), bookingID, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, domain.StatusCompleted, f.repo.status)

	_, err = f.svc.UpdateStatus(context.Background(), bookingID, &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(context.Background(), bookingID, &models.UpdateStatusRequest{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{CancellationReason: "sick"})
	require.NoError(t, err)
	assert.Equal(t, "sick", f.repo.cancelled)
}

func TestCancel_NotCancellable(t *testing.T) {
	f := newFixture(t)
	f.repo.bookings[bookingID].Status = domain.StatusCompleted

	err := f.svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_RepositoryError(t *testing.T) {
	f := newFixture(t)
	f.repo.updateErr = fmt.Errorf("%w: boom", bookingRepo.ErrExecQuery)

	err := f.svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestReschedule_IgnoresOwnInterval(t *testing.T) {
	f := newFixture(t)

	// 10:30 пересекается только с собственным интервалом бронирования
	newStart := time.Date(2026, time.October, 20, 10, 30, 0, 0, f.loc)
	resp, err := f.svc.Reschedule(context.Background(), bookingID, &models.RescheduleRequest{Start: newStart})

	require.NoError(t, err)
	assert.True(t, f.repo.rescheduled)
	assert.Equal(t, "10:30 AM", resp.DisplayTime)
	assert.Equal(t, time.Hour, resp.EndAt.Sub(resp.StartAt))
	assert.Equal(t, 1, f.locker.released)
}

func TestReschedule_Conflict(t *testing.T) {
	f := newFixture(t)
	f.commitments.busy = append(f.commitments.busy, domain.BusyInterval{
		Start:  time.Date(2026, time.October, 20, 14, 0, 0, 0, f.loc),
		End:    time.Date(2026, time.October, 20, 15, 0, 0, 0, f.loc),
		Source: domain.SourceCalendar,
	})

	_, err := f.svc.Reschedule(context.Background(), bookingID, &models.RescheduleRequest{
		Start: time.Date(2026, time.October, 20, 13, 0, 0, 0, f.loc),
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.False(t, f.repo.rescheduled)
}

func TestReschedule_Rejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reschedule(context.Background(), bookingID, &models.RescheduleRequest{
		Start: time.Date(2026, time.October, 25, 10, 0, 0, 0, f.loc),
	})

	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReschedule_CancelledBooking(t *testing.T) {
	f := newFixture(t)
	f.repo.bookings[bookingID].Status = domain.StatusCancelled

	_, err := f.svc.Reschedule(context.Background(), bookingID, &models.RescheduleRequest{
		Start: time.Date(2026, time.October, 20, 13, 0, 0, 0, f.loc),
	})

	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestReschedule_Locked(t *testing.T) {
	f := newFixture(t)
	f.locker.err = lock.ErrLocked

	_, err := f.svc.Reschedule(context.Background(), bookingID, &models.RescheduleRequest{
		Start: time.Date(2026, time.October, 20, 13, 0, 0, 0, f.loc),
	})

	assert.ErrorIs(t, err, ErrSlotBusy)
}

func TestReschedule_UniqueViolation(t *testing.T) {
	f := newFixture(t)
	f.repo.updateErr = fmt.Errorf("%w: duplicate", bookingRepo.ErrSlotNotAvailable)

	_, err := f.svc.Reschedule(context.Background(), bookingID, &models.RescheduleRequest{
		Start: time.Date(2026, time.October, 20, 13, 0, 0, 0, f.loc),
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestWithoutOwn(t *testing.T) {
	f := newFixture(t)
	own := f.repo.bookings[bookingID]
	calendar := domain.BusyInterval{Start: own.StartAt, End: own.EndAt, Source: domain.SourceCalendar}

	busy := withoutOwn([]domain.BusyInterval{own.BusyInterval(), calendar}, own)

	assert.Equal(t, []domain.BusyInterval{calendar}, busy)
}

package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/lock"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixedID string

func (f fixedID) NewID() string { return string(f) }

type fakeRepo struct {
	created []*domain.Booking
	err     error
}

func (f *fakeRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b.CreatedAt = time.Date(2026, time.October, 18, 16, 0, 0, 0, time.UTC)
	f.created = append(f.created, b)
	return b, nil
}

type fakeCommitments struct {
	busy []domain.BusyInterval
	err  error
}

func (f *fakeCommitments) Fetch(context.Context, civil.Date, domain.ScheduleConfig) ([]domain.BusyInterval, error) {
	return f.busy, f.err
}

type fakeLocker struct {
	err      error
	locked   []civil.Date
	released int
}

func (f *fakeLocker) Lock(_ context.Context, date civil.Date) (func(context.Context) error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked = append(f.locked, date)
	return func(context.Context) error {
		f.released++
		return nil
	}, nil
}

type fakeTx struct {
	commitErr error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type fakeRecorder struct{ outcomes []string }

func (f *fakeRecorder) RecordCommit(outcome string) { f.outcomes = append(f.outcomes, outcome) }

type fixture struct {
	uc          *UseCase
	repo        *fakeRepo
	commitments *fakeCommitments
	locker      *fakeLocker
	tx          *fakeTx
	recorder    *fakeRecorder
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

	f := &fixture{
		repo:        &fakeRepo{},
		commitments: &fakeCommitments{},
		locker:      &fakeLocker{},
		tx:          &fakeTx{},
		recorder:    &fakeRecorder{},
		loc:         loc,
	}
	f.uc = NewUseCase(f.repo, f.commitments, f.locker, f.tx, f.recorder, cfg, fixedID("b-1"), logger.Nop())
	f.uc.timeProvider = fixedTime{now: time.Date(2026, time.October, 18, 12, 0, 0, 0, loc)}
	return f
}

func (f *fixture) request(hour, minute int) *Request {
	return &Request{
		ServiceID:       "consultation",
		DurationMinutes: 60,
		Start:           time.Date(2026, time.October, 20, hour, minute, 0, 0, f.loc),
		CustomerName:    "Jordan Lee",
		CustomerEmail:   "jordan@example.com",
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request(10, 0))

	require.NoError(t, err)
	assert.Equal(t, "b-1", resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "10:00 AM", resp.DisplayTime)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.October, Day: 20}, resp.BookingDate)
	assert.Equal(t, time.Hour, resp.EndAt.Sub(resp.StartAt))

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, 60, f.repo.created[0].DurationMinutes)
	assert.Equal(t, []civil.Date{{Year: 2026, Month: time.October, Day: 20}}, f.locker.locked)
	assert.Equal(t, 1, f.locker.released)
	assert.Equal(t, []string{OutcomeCreated}, f.recorder.outcomes)
}

func TestExecute_Conflict(t *testing.T) {
	f := newFixture(t)
	f.commitments.busy = []domain.BusyInterval{{
		Start:  time.Date(2026, time.October, 20, 10, 30, 0, 0, f.loc),
		End:    time.Date(2026, time.October, 20, 11, 0, 0, 0, f.loc),
		Source: domain.SourceCalendar,
	}}

	_, err := f.uc.Execute(context.Background(), f.request(10, 0))

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.repo.created)
	assert.Equal(t, 1, f.locker.released)
	assert.Equal(t, []string{OutcomeConflict}, f.recorder.outcomes)
}

func TestExecute_RejectedSlots(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		day    int
	}{
		{name: "до открытия", hour: 8, minute: 0, day: 20},
		{name: "выходной", hour: 10, minute: 0, day: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.request(tt.hour, tt.minute)
			req.Start = time.Date(2026, time.October, tt.day, tt.hour, tt.minute, 0, 0, f.loc)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidSlot)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.repo.created)
		})
	}
}

func TestExecute_ConcurrentInsertMapsToConflict(t *testing.T) {
	f := newFixture(t)
	f.repo.err = fmt.Errorf("%w: duplicate", bookingRepo.ErrSlotNotAvailable)

	_, err := f.uc.Execute(context.Background(), f.request(10, 0))

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SerializationFailureOnCommit(t *testing.T) {
	f := newFixture(t)
	f.tx.commitErr = fmt.Errorf("commit: %w", &pq.Error{Code: "40001"})

	_, err := f.uc.Execute(context.Background(), f.request(10, 0))

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, []string{OutcomeConflict}, f.recorder.outcomes)
}

func TestExecute_Locked(t *testing.T) {
	f := newFixture(t)
	f.locker.err = fmt.Errorf("%w: booking:lock:2026-10-20", lock.ErrLocked)

	_, err := f.uc.Execute(context.Background(), f.request(10, 0))

	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.Equal(t, []string{OutcomeBusy}, f.recorder.outcomes)
}

func TestExecute_SourceUnavailable(t *testing.T) {
	f := newFixture(t)
	f.commitments.err = fmt.Errorf("%w: calendar", domain.ErrSourceUnavailable)

	_, err := f.uc.Execute(context.Background(), f.request(10, 0))

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, []string{OutcomeError}, f.recorder.outcomes)
}

func TestExecute_InvalidRequest(t *testing.T) {
	f := newFixture(t)

	req := f.request(10, 0)
	req.CustomerEmail = "not-an-email"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = f.request(10, 0)
	req.DurationMinutes = 0
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, f.locker.locked)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

package bookings

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс журнала бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	Cancel(ctx context.Context, id string, reason string) error
	Reschedule(ctx context.Context, id string, date civil.Date, startAt, endAt time.Time) error
}

// CommitmentsFetcher источник занятых интервалов (календарь + журнал бронирований)
type CommitmentsFetcher interface {
	Fetch(ctx context.Context, date civil.Date, cfg domain.ScheduleConfig) ([]domain.BusyInterval, error)
}

// SlotLocker консультативная блокировка бизнес-даты
type SlotLocker interface {
	Lock(ctx context.Context, date civil.Date) (func(context.Context) error, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

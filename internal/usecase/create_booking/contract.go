package create_booking

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс журнала бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CommitRecorder учёт исходов фиксации бронирования (метрики)
type CommitRecorder interface {
	RecordCommit(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// IDGenerator генератор идентификаторов бронирований
type IDGenerator interface {
	NewID() string
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

// UUIDGenerator генерирует идентификаторы UUID v4
type UUIDGenerator struct{}

// NewID возвращает новый UUID
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

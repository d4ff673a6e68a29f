package get_available_slots

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CommitmentsFetcher источник занятых интервалов (календарь + журнал бронирований)
type CommitmentsFetcher interface {
	Fetch(ctx context.Context, date civil.Date, cfg domain.ScheduleConfig) ([]domain.BusyInterval, error)
}

// SlotsRecorder учёт числа доступных слотов в ответах (метрики)
type SlotsRecorder interface {
	ObserveSlots(endpoint string, n int)
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

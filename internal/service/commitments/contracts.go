package commitments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BusySource источник занятых интервалов (календарь или журнал бронирований)
type BusySource interface {
	FetchBusyIntervals(ctx context.Context, from, to time.Time) ([]domain.BusyInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_open_dates

import (
	"context"

	getOpenDates "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_open_dates"
)

type GetOpenDatesUseCase interface {
	Execute(ctx context.Context, req *getOpenDates.Request) (*getOpenDates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

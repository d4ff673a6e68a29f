package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create booking", domain.ErrInvalidInput)

	// ErrInvalidSlot возвращается, когда слот не может быть забронирован:
	// в прошлом, за окном бронирования, в выходной или вне часов работы
	ErrInvalidSlot = fmt.Errorf("%w: slot cannot be booked", domain.ErrInvalidInput)

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("slot is no longer available")

	// ErrSlotBusy возвращается, когда на эту дату параллельно фиксируется другое бронирование
	ErrSlotBusy = errors.New("another booking for this date is in progress")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

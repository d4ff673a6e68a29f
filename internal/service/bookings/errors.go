package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCannotReschedule возвращается, когда бронирование не может быть перенесено
	ErrCannotReschedule = errors.New("booking cannot be rescheduled")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: bookings", domain.ErrInvalidInput)

	// ErrInvalidSlot возвращается, когда новый слот вне окна записи или рабочих часов
	ErrInvalidSlot = fmt.Errorf("%w: requested slot is not bookable", domain.ErrInvalidInput)

	// ErrSlotNotAvailable возвращается, когда новый слот пересекается с занятостью
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrSlotBusy возвращается, когда дата заблокирована параллельным запросом
	ErrSlotBusy = errors.New("slot is being booked by another request")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotBusy           = "слот бронируется другим запросом, повторите попытку"
	msgInvalidSlot        = "выбранное время нельзя забронировать"
	msgSourceUnavailable  = "источник занятости временно недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: start=%s", req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSlotBusy):
			h.logger.Warn("POST /bookings - Slot busy: start=%s", req.StartTime)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, domain.ErrSourceUnavailable):
			h.logger.Error("POST /bookings - Source unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgSourceUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%s, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, service_id=%s",
		result.ID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

package reschedule_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgCannotReschedule   = "бронирование не может быть перенесено"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotBusy           = "слот бронируется другим запросом, повторите попытку"
	msgInvalidSlot        = "выбранное время нельзя забронировать"
	msgSourceUnavailable  = "источник занятости временно недоступен"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"` // RFC 3339
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Reschedule(r.Context(), bookingID, &models.RescheduleRequest{Start: req.StartTime})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotReschedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Cannot reschedule: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, bookings.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, bookings.ErrSlotBusy):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot busy: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, bookings.ErrInvalidSlot):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, domain.ErrSourceUnavailable):
			h.logger.Error("PATCH /bookings/{id}/reschedule - Source unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgSourceUnavailable)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%s, start=%s",
		bookingID, booking.StartAt.Format(time.RFC3339))
	handlers.RespondJSON(w, http.StatusOK, booking)
}

package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration   = "некорректная длительность услуги"
	msgDateOutOfWindow   = "дата вне окна бронирования"
	msgInvalidInput      = "некорректные параметры запроса"
	msgSourceUnavailable = "источник занятости временно недоступен"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/slots
// Query params: date (required, YYYY-MM-DD), durationMinutes (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := civil.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /availability/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	duration, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /availability/slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrDateOutOfWindow):
			h.logger.Warn("GET /availability/slots - Date out of window: date=%s", date)
			handlers.RespondBadRequest(w, msgDateOutOfWindow)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /availability/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrSourceUnavailable):
			h.logger.Error("GET /availability/slots - Source unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgSourceUnavailable)

		default:
			h.logger.Error("GET /availability/slots - Failed to get slots: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	available := 0
	for _, s := range result.Slots {
		if s.Available {
			available++
		}
	}

	h.logger.Info("GET /availability/slots - Slots retrieved: date=%s, total=%d, available=%d",
		date, len(result.Slots), available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

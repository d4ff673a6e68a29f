package check_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	checkSlot "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_slot"
)

const (
	msgInvalidStart      = "некорректное время начала, ожидается RFC 3339"
	msgInvalidDuration   = "некорректная длительность услуги"
	msgInvalidInput      = "некорректные параметры запроса"
	msgSourceUnavailable = "источник занятости временно недоступен"
)

// CheckResponse HTTP response model
type CheckResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type Handler struct {
	useCase CheckSlotUseCase
	logger  Logger
}

func NewHandler(useCase CheckSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/check
// Query params: start (required, RFC 3339), durationMinutes (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /availability/check - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	duration, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /availability/check - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkSlot.Request{
		Start:           start,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /availability/check - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrSourceUnavailable):
			h.logger.Error("GET /availability/check - Source unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgSourceUnavailable)

		default:
			h.logger.Error("GET /availability/check - Failed to check slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/check - start=%s, available=%t", start.Format(time.RFC3339), result.Available)
	handlers.RespondJSON(w, http.StatusOK, &CheckResponse{
		StartTime: result.Start.UTC().Format(time.RFC3339),
		EndTime:   result.End.UTC().Format(time.RFC3339),
		Available: result.Available,
		Reason:    result.Reason,
	})
}

package get_open_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getOpenDates "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_open_dates"
)

const msgInvalidDuration = "некорректная длительность услуги"

// DatesResponse HTTP response model
type DatesResponse struct {
	Timezone string   `json:"timezone"`
	Dates    []string `json:"dates"` // YYYY-MM-DD по возрастанию
}

type Handler struct {
	useCase GetOpenDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetOpenDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/dates
// Query params: durationMinutes (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	duration, err := strconv.Atoi(r.URL.Query().Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /availability/dates - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getOpenDates.Request{DurationMinutes: duration})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.logger.Warn("GET /availability/dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		h.logger.Error("GET /availability/dates - Failed to get dates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	dates := make([]string, len(result.Dates))
	for i, d := range result.Dates {
		dates[i] = d.String()
	}

	h.logger.Info("GET /availability/dates - Dates retrieved: count=%d", len(dates))
	handlers.RespondJSON(w, http.StatusOK, &DatesResponse{
		Timezone: result.Timezone,
		Dates:    dates,
	})
}

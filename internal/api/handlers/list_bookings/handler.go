package list_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgMissingDate   = "дата обязательна"
	msgInvalidParams = "некорректные параметры запроса"
)

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

// Handle GET /api/v1/bookings
// Query params: date (required, YYYY-MM-DD), status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.ListBookingsRequest{Date: query.Get("date")}
	if req.Date == "" {
		h.logger.Warn("GET /bookings - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			h.logger.Warn("GET /bookings - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.IncludeInactive = includeInactive
	}

	result, err := h.service.ListByDate(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.logger.Warn("GET /bookings - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /bookings - Failed to list bookings: date=%s, error=%v", req.Date, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved: date=%s, count=%d", req.Date, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}

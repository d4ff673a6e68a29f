package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ServiceID) == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("%w: customerEmail is invalid", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

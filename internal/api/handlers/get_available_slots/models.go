package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Timezone        string         `json:"timezone"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse один слот дня
type SlotResponse struct {
	StartTime   string `json:"startTime"` // RFC 3339, UTC
	EndTime     string `json:"endTime"`
	DisplayTime string `json:"displayTime"` // "10:00 AM"
	Available   bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:   s.Start.UTC().Format(time.RFC3339),
			EndTime:     s.End.UTC().Format(time.RFC3339),
			DisplayTime: s.DisplayTime,
			Available:   s.Available,
		}
	}

	return &SlotsResponse{
		Date:            resp.Date.String(),
		DurationMinutes: resp.DurationMinutes,
		Timezone:        resp.Timezone,
		Slots:           slots,
	}
}

package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const bookingID = "6f1c2a7e-3b44-4d1a-9b7e-2f0c9d8e5a11"

type fakeService struct {
	gotID     string
	gotStatus string
	err       error
}

func (f *fakeService) UpdateStatus(_ context.Context, id string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	f.gotID = id
	f.gotStatus = req.Status
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: req.Status}, nil
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/status", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Nop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(`{"status":"confirmed"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bookingID, svc.gotID)
	assert.Equal(t, "confirmed", svc.gotStatus)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "пустое тело", body: "", status: http.StatusBadRequest},
		{name: "отмена через статус", body: `{"status":"cancelled"}`, status: http.StatusBadRequest},
		{name: "неизвестное поле", body: `{"status":"confirmed","reason":"x"}`, status: http.StatusBadRequest},
		{name: "не найдено", body: `{"status":"confirmed"}`, err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{
			name:   "недопустимый переход",
			body:   `{"status":"completed"}`,
			err:    fmt.Errorf("%w: pending -> completed", bookings.ErrInvalidTransition),
			status: http.StatusConflict,
		},
		{name: "некорректный id", body: `{"status":"confirmed"}`, err: bookings.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "ошибка БД", body: `{"status":"confirmed"}`, err: fmt.Errorf("%w: boom", bookings.ErrInternal), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.Nop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.body))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

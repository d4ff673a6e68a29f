package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestConflicts_BufferBoundaries(t *testing.T) {
	busy := []domain.BusyInterval{
		{Start: at(t, tuesday, "10:00"), End: at(t, tuesday, "10:30"), Source: domain.SourceLedger},
	}
	buffer := 15 * time.Minute

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{name: "буфер задевает", start: "10:29", end: "10:59", want: true},
		{name: "касание после буфера", start: "10:45", end: "11:15", want: false},
		{name: "касание до буфера", start: "09:15", end: "09:45", want: false},
		{name: "буфер задевает слева", start: "09:16", end: "09:46", want: true},
		{name: "внутри", start: "10:05", end: "10:20", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conflicts(at(t, tuesday, tt.start), at(t, tuesday, tt.end), buffer, busy)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflicts_ZeroBufferTouching(t *testing.T) {
	busy := []domain.BusyInterval{
		{Start: at(t, tuesday, "10:00"), End: at(t, tuesday, "10:30"), Source: domain.SourceCalendar},
	}

	assert.False(t, conflicts(at(t, tuesday, "10:30"), at(t, tuesday, "11:00"), 0, busy))
	assert.False(t, conflicts(at(t, tuesday, "09:30"), at(t, tuesday, "10:00"), 0, busy))
	assert.True(t, conflicts(at(t, tuesday, "09:31"), at(t, tuesday, "10:01"), 0, busy))
}

package domain

// Default schedule values used when configuration omits them
const (
	DefaultBufferMinutes       = 15
	DefaultSlotIntervalMinutes = 30
	DefaultBookingWindowDays   = 60
	DefaultTimezone            = "America/New_York"
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 1
	MaxServiceDurationMinutes   = 24 * 60
	MaxBookingWindowDays        = 365
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses that no longer occupy their interval
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusFailed,
}

// ActiveStatuses statuses that occupy their interval
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

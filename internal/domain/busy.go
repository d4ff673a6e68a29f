package domain

import "time"

// BusySource identifies where a busy interval came from
type BusySource string

const (
	SourceCalendar BusySource = "calendar"
	SourceLedger   BusySource = "ledger"
)

// BusyInterval is a pre-existing commitment normalized from the calendar feed or the ledger.
// Cancelled intervals never block a slot.
type BusyInterval struct {
	Start     time.Time
	End       time.Time
	Source    BusySource
	Cancelled bool
}

// Blocks reports whether the interval takes part in conflict checks
func (b BusyInterval) Blocks() bool {
	return !b.Cancelled
}

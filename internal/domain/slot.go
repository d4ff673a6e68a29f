package domain

import "time"

// DisplayTimeFormat is the business-local label format of a slot start
const DisplayTimeFormat = "3:04 PM"

// CandidateSlot is a bookable interval before conflict filtering
type CandidateSlot struct {
	Start       time.Time
	End         time.Time
	DisplayTime string
}

// Duration returns the length of the slot
func (s CandidateSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// EvaluatedSlot is a candidate slot marked available or unavailable
type EvaluatedSlot struct {
	CandidateSlot
	Available bool
}


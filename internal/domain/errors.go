package domain

import "errors"

// Error taxonomy shared by the availability engine and its callers
var (
	// ErrConfig malformed or missing schedule configuration; fatal for the operation
	ErrConfig = errors.New("schedule configuration error")

	// ErrSourceUnavailable a busy-interval source (calendar feed or ledger) could not be read
	ErrSourceUnavailable = errors.New("commitment source unavailable")

	// ErrInvalidInput the request cannot be evaluated (bad duration, date or instant)
	ErrInvalidInput = errors.New("invalid input")
)

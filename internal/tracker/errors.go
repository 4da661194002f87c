package tracker

import "errors"

var (
	// ErrInvalidAmount is returned for an amount that is not a finite,
	// non-negative number. Callers should re-prompt.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDate is returned for a date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrDuplicateID is returned when the id provider keeps issuing ids that
	// are already in use.
	ErrDuplicateID = errors.New("duplicate expense id")

	// ErrPersistenceRead marks a saved state that could not be read or parsed.
	ErrPersistenceRead = errors.New("persistence read failure")
	// ErrPersistenceWrite marks a state that could not be written.
	ErrPersistenceWrite = errors.New("persistence write failure")
)

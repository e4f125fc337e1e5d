package service

import "errors"

var (
	// Booking policy errors, checked before slot generation.
	ErrPastDate       = errors.New("booking date is in the past")
	ErrDateTooFar     = errors.New("booking date is too far in the future")
	ErrClosedDay      = errors.New("the studio is closed on that day")
	ErrOutsideHours   = errors.New("requested time is outside opening hours")
	ErrUnknownService = errors.New("unknown service type")

	// Lifecycle errors.
	ErrUnknownStatus     = errors.New("unknown reservation status")
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidMonth marks a malformed "YYYY-MM" stats month, as opposed
	// to a failure computing the stats themselves.
	ErrInvalidMonth = errors.New("invalid month")

	// Check-in errors.
	ErrBadScanPayload = errors.New("scan payload does not carry a booking reference")
	ErrAlreadyUsed    = errors.New("reservation already checked in or completed")
	ErrNotConfirmed   = errors.New("reservation is not confirmed")
	ErrCancelled      = errors.New("reservation is cancelled")
)

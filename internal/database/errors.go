package database

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrReservationNotFound is returned when a lookup resolves nothing.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrConcurrentModification is returned when a versioned update hits a
	// row that changed since it was read.
	ErrConcurrentModification = errors.New("reservation was modified concurrently")
)

// ConflictError reports the first requested slot that overlaps an existing
// non-cancelled reservation. SlotIndex is zero-based within the request, so
// callers can tell the requester exactly which occurrence failed.
type ConflictError struct {
	SlotIndex int
	Start     time.Time
	End       time.Time
	With      string // sequence ID of the blocking reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %d (%s) overlaps existing reservation %s",
		e.SlotIndex+1, e.Start.Format("2006-01-02 15:04"), e.With)
}

// IsConflict reports whether err is a slot conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

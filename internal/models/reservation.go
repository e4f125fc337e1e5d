package models

import "time"

// Reservation is a single committed time slot for the studio.
// Reservations created from one request share a GroupID; the SequenceID is
// the human-facing per-slot reference printed on the check-in pass.
type Reservation struct {
	ID         int64     `json:"id"`
	UID        string    `json:"uid"`
	GroupID    string    `json:"group_id"`
	SequenceID string    `json:"sequence_id"`
	OwnerRef   string    `json:"owner_ref"`
	OwnerName  string    `json:"owner_name"`
	OwnerEmail string    `json:"owner_email"`
	Service    string    `json:"service"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Duration   int       `json:"duration"`
	Status     string    `json:"status"`
	Recurrence string    `json:"recurrence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int64     `json:"version"`
}

// Active reports whether the reservation still occupies its time slot.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}

// BookingRequest is what a requester submits: an anchor date, a wall-clock
// start time, a duration and an optional weekly recurrence.
type BookingRequest struct {
	Service       string    `json:"service"`
	Date          time.Time `json:"date"`
	StartHour     int       `json:"start_hour"`
	StartMinute   int       `json:"start_minute"`
	DurationHours int       `json:"duration_hours"`
	Recurrence    string    `json:"recurrence"`
}

// Owner identifies the requesting account. The scheduling engine treats it
// as opaque; it comes from the identity provider.
type Owner struct {
	Ref   string `json:"ref"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitResult is returned after a successful group commit.
type CommitResult struct {
	GroupID     string   `json:"group_id"`
	SequenceIDs []string `json:"sequence_ids"`
}

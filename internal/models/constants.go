package models

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCheckIn   = "Check-in"
	StatusDone      = "Done"
	StatusCancelled = "Cancelled"
	StatusNoShow    = "NoShow"
)

const (
	RecurrenceSingle   = "single"
	RecurrenceSemester = "semester"
)

// AllStatuses lists every status the service recognizes, in lifecycle order.
var AllStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusCheckIn,
	StatusDone,
	StatusCancelled,
	StatusNoShow,
}

// KnownStatus reports whether s is one of the recognized statuses.
func KnownStatus(s string) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

const (
	// DefaultRecurrenceCount is the number of weekly occurrences in a
	// semester booking.
	DefaultRecurrenceCount = 16

	// DefaultMaxDurationHours caps a single session length.
	DefaultMaxDurationHours = 8

	// DefaultFullDayThreshold is the calendar heuristic: a day with this
	// many active reservations is rendered as fully booked.
	DefaultFullDayThreshold = 8

	// DefaultSessionRate is the per-session revenue used by the dashboard.
	DefaultSessionRate = 500

	// DefaultStatsCacheTTL is the dashboard stats cache lifetime in seconds.
	DefaultStatsCacheTTL = 30 * 60

	// QRPayloadPrefix prefixes the sequence ID inside the scannable pass.
	QRPayloadPrefix = "BookingID:"
)

package models

import "time"

// MonthStats is the dashboard aggregate for one calendar month.
type MonthStats struct {
	Month        string         `json:"month"` // YYYY-MM
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	Revenue      int64          `json:"revenue"`
	BookingRate  float64        `json:"booking_rate"`
	UpcomingWeek int            `json:"upcoming_week"`
}

// CachedStats wraps a computed stats value with its computation time so the
// caller can decide staleness explicitly instead of relying on ambient state.
type CachedStats struct {
	Value      MonthStats `json:"value"`
	ComputedAt time.Time  `json:"computed_at"`
}

// IsStale reports whether the cached value is older than ttl at now.
func (c *CachedStats) IsStale(now time.Time, ttl time.Duration) bool {
	if c == nil || c.ComputedAt.IsZero() {
		return true
	}
	return now.Sub(c.ComputedAt) > ttl
}

// CalendarDay is one cell of the month-grid projection.
type CalendarDay struct {
	Date         time.Time      `json:"date"`
	Reservations []*Reservation `json:"reservations"`
	FullyBooked  bool           `json:"fully_booked"`
}

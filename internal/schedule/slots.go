package schedule

import (
	"errors"
	"fmt"
	"time"

	"mixlab/internal/models"
)

var (
	ErrMissingService    = errors.New("service is required")
	ErrMissingDate       = errors.New("booking date is required")
	ErrInvalidStartTime  = errors.New("start time is out of range")
	ErrInvalidDuration   = errors.New("duration must be a positive number of hours")
	ErrDurationTooLong   = errors.New("duration exceeds the maximum session length")
	ErrUnknownRecurrence = errors.New("unknown recurrence kind")
)

// Slot is a half-open [Start, End) candidate interval.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Config bounds slot generation. Zero values fall back to the defaults so a
// Generator is usable without any wiring.
type Config struct {
	// RecurrenceCount is the number of weekly occurrences produced for a
	// semester request.
	RecurrenceCount int
	// MaxDurationHours caps a single session.
	MaxDurationHours int
}

func (c Config) recurrenceCount() int {
	if c.RecurrenceCount <= 0 {
		return models.DefaultRecurrenceCount
	}
	return c.RecurrenceCount
}

func (c Config) maxDuration() int {
	if c.MaxDurationHours <= 0 {
		return models.DefaultMaxDurationHours
	}
	return c.MaxDurationHours
}

// Generator expands booking requests into candidate slots. It is a pure
// function of its inputs and never touches storage.
type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Validate checks the request shape without generating anything.
func (g *Generator) Validate(req models.BookingRequest) error {
	if req.Service == "" {
		return ErrMissingService
	}
	if req.Date.IsZero() {
		return ErrMissingDate
	}
	if req.StartHour < 0 || req.StartHour > 23 || req.StartMinute < 0 || req.StartMinute > 59 {
		return ErrInvalidStartTime
	}
	if req.DurationHours <= 0 {
		return ErrInvalidDuration
	}
	if req.DurationHours > g.cfg.maxDuration() {
		return fmt.Errorf("%w: %d > %d", ErrDurationTooLong, req.DurationHours, g.cfg.maxDuration())
	}
	switch req.Recurrence {
	case models.RecurrenceSingle, models.RecurrenceSemester:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRecurrence, req.Recurrence)
	}
	return nil
}

// Expand turns a request into its ordered candidate slots: one slot for a
// single session, RecurrenceCount weekly occurrences for a semester. Weekly
// strides are calendar weeks (AddDate), so a series keeps its wall-clock
// start across DST changes.
func (g *Generator) Expand(req models.BookingRequest) ([]Slot, error) {
	if err := g.Validate(req); err != nil {
		return nil, err
	}

	y, m, d := req.Date.Date()
	baseStart := time.Date(y, m, d, req.StartHour, req.StartMinute, 0, 0, req.Date.Location())
	baseEnd := baseStart.Add(time.Duration(req.DurationHours) * time.Hour)

	if req.Recurrence == models.RecurrenceSingle {
		return []Slot{{Start: baseStart, End: baseEnd}}, nil
	}

	count := g.cfg.recurrenceCount()
	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, Slot{
			Start: baseStart.AddDate(0, 0, 7*i),
			End:   baseEnd.AddDate(0, 0, 7*i),
		})
	}
	return slots, nil
}

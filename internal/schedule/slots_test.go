package schedule

import (
	"testing"
	"time"

	"mixlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() models.BookingRequest {
	return models.BookingRequest{
		Service:       "Recording Session",
		Date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		StartHour:     10,
		StartMinute:   0,
		DurationHours: 2,
		Recurrence:    models.RecurrenceSingle,
	}
}

func TestExpandSingle(t *testing.T) {
	g := NewGenerator(Config{})

	slots, err := g.Expand(baseRequest())
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slots[0].End)
}

func TestExpandSemester(t *testing.T) {
	g := NewGenerator(Config{})

	req := baseRequest()
	req.Recurrence = models.RecurrenceSemester

	slots, err := g.Expand(req)
	require.NoError(t, err)
	require.Len(t, slots, models.DefaultRecurrenceCount)

	base := slots[0].Start
	for i, slot := range slots {
		assert.Equal(t, base.AddDate(0, 0, 7*i), slot.Start, "occurrence %d start", i)
		assert.Equal(t, 2*time.Hour, slot.End.Sub(slot.Start), "occurrence %d duration", i)
	}

	// The last occurrence of a 16-week series is 105 days out.
	assert.Equal(t, base.AddDate(0, 0, 105), slots[15].Start)
}

func TestExpandConfigurableCount(t *testing.T) {
	g := NewGenerator(Config{RecurrenceCount: 4})

	req := baseRequest()
	req.Recurrence = models.RecurrenceSemester

	slots, err := g.Expand(req)
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestExpandRespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	g := NewGenerator(Config{})
	req := baseRequest()
	req.Date = time.Date(2024, 3, 4, 0, 0, 0, 0, loc)

	slots, err := g.Expand(req)
	require.NoError(t, err)
	assert.Equal(t, loc, slots[0].Start.Location())
	assert.Equal(t, 10, slots[0].Start.Hour())
}

func TestValidateRejectsBadRequests(t *testing.T) {
	g := NewGenerator(Config{})

	tests := []struct {
		name    string
		mutate  func(*models.BookingRequest)
		wantErr error
	}{
		{"missing service", func(r *models.BookingRequest) { r.Service = "" }, ErrMissingService},
		{"zero date", func(r *models.BookingRequest) { r.Date = time.Time{} }, ErrMissingDate},
		{"negative hour", func(r *models.BookingRequest) { r.StartHour = -1 }, ErrInvalidStartTime},
		{"hour too large", func(r *models.BookingRequest) { r.StartHour = 24 }, ErrInvalidStartTime},
		{"minute too large", func(r *models.BookingRequest) { r.StartMinute = 60 }, ErrInvalidStartTime},
		{"zero duration", func(r *models.BookingRequest) { r.DurationHours = 0 }, ErrInvalidDuration},
		{"negative duration", func(r *models.BookingRequest) { r.DurationHours = -3 }, ErrInvalidDuration},
		{"duration too long", func(r *models.BookingRequest) { r.DurationHours = 9 }, ErrDurationTooLong},
		{"unknown recurrence", func(r *models.BookingRequest) { r.Recurrence = "daily" }, ErrUnknownRecurrence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)

			_, err := g.Expand(req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

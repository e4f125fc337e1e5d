package schedule

import (
	"testing"
	"time"

	"mixlab/internal/models"

	"github.com/stretchr/testify/assert"
)

func slotAt(day time.Time, fromHour, toHour int) Slot {
	return Slot{
		Start: day.Add(time.Duration(fromHour) * time.Hour),
		End:   day.Add(time.Duration(toHour) * time.Hour),
	}
}

func reservationAt(day time.Time, fromHour, toHour int, status string) *models.Reservation {
	s := slotAt(day, fromHour, toHour)
	return &models.Reservation{Start: s.Start, End: s.End, Status: status}
}

func TestOverlapHalfOpenBoundaries(t *testing.T) {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	existing := []*models.Reservation{reservationAt(day, 12, 14, models.StatusConfirmed)}

	// Ends exactly when the existing one starts: free.
	assert.False(t, HasConflict(slotAt(day, 10, 12), existing))
	// Starts exactly when the existing one ends: free.
	assert.False(t, HasConflict(slotAt(day, 14, 16), existing))
	// Genuine overlap.
	assert.True(t, HasConflict(slotAt(day, 11, 13), existing))
	assert.True(t, HasConflict(slotAt(day, 13, 15), existing))
	// Candidate fully inside and fully covering.
	assert.True(t, HasConflict(slotAt(day, 12, 13), existing))
	assert.True(t, HasConflict(slotAt(day, 11, 15), existing))
}

func TestOverlapIsSymmetric(t *testing.T) {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	pairs := [][2]Slot{
		{slotAt(day, 10, 12), slotAt(day, 11, 13)},
		{slotAt(day, 10, 12), slotAt(day, 12, 14)},
		{slotAt(day, 8, 20), slotAt(day, 9, 10)},
		{slotAt(day, 10, 11), slotAt(day, 15, 16)},
	}

	for _, p := range pairs {
		a := []*models.Reservation{{Start: p[0].Start, End: p[0].End, Status: models.StatusPending}}
		b := []*models.Reservation{{Start: p[1].Start, End: p[1].End, Status: models.StatusPending}}
		assert.Equal(t, HasConflict(p[0], b), HasConflict(p[1], a))
	}
}

func TestCancelledReservationsAreTransparent(t *testing.T) {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	existing := []*models.Reservation{reservationAt(day, 10, 12, models.StatusCancelled)}

	assert.False(t, HasConflict(slotAt(day, 10, 12), existing))

	existing = append(existing, reservationAt(day, 10, 12, models.StatusPending))
	assert.True(t, HasConflict(slotAt(day, 10, 12), existing))
}

func TestFindConflictReturnsOffender(t *testing.T) {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	offender := reservationAt(day, 11, 13, models.StatusConfirmed)
	offender.SequenceID = "ABC123XYZ-1"
	existing := []*models.Reservation{
		reservationAt(day, 8, 9, models.StatusConfirmed),
		offender,
	}

	got := FindConflict(slotAt(day, 12, 14), existing)
	assert.NotNil(t, got)
	assert.Equal(t, "ABC123XYZ-1", got.SequenceID)

	assert.Nil(t, FindConflict(slotAt(day, 9, 11), existing))
}

func TestFindSelfConflict(t *testing.T) {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	_, _, ok := FindSelfConflict([]Slot{slotAt(day, 10, 12), slotAt(day.AddDate(0, 0, 7), 10, 12)})
	assert.False(t, ok)

	i, j, ok := FindSelfConflict([]Slot{slotAt(day, 10, 12), slotAt(day, 14, 16), slotAt(day, 11, 13)})
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, 2, j)
}

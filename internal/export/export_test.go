package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mixlab/internal/database"
	"mixlab/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupExportDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedReservation(t *testing.T, db *database.DB, seq string, start time.Time, status string) {
	t.Helper()
	err := db.CreateReservationGroup(context.Background(), []*models.Reservation{{
		UID:        "uid-" + seq,
		GroupID:    seq[:9],
		SequenceID: seq,
		OwnerRef:   "owner-1",
		OwnerName:  "Alex",
		OwnerEmail: "alex@example.com",
		Service:    "Recording Session",
		Start:      start,
		End:        start.Add(time.Hour),
		Duration:   1,
		Status:     status,
		Recurrence: models.RecurrenceSingle,
	}})
	require.NoError(t, err)
}

func TestWriteSchedule(t *testing.T) {
	db := setupExportDB(t)
	monday := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	seedReservation(t, db, "AAAA00001-1", monday, models.StatusConfirmed)
	seedReservation(t, db, "BBBB00002-1", monday.Add(2*time.Hour), models.StatusCancelled)

	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	exporter := NewExporter(db, t.TempDir(), &logger)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteSchedule(context.Background(), &buf, monday.AddDate(0, 0, -1), monday.AddDate(0, 0, 1)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 4) // title, header, two reservations

	assert.Equal(t, "Booking ID", rows[1][0])
	assert.Equal(t, "AAAA00001-1", rows[2][0])
	assert.Equal(t, "Recording Session", rows[2][2])
	assert.Equal(t, models.StatusConfirmed, rows[2][8])
	assert.Equal(t, "BBBB00002-1", rows[3][0])
	assert.Equal(t, models.StatusCancelled, rows[3][8])
}

func TestScheduleFile(t *testing.T) {
	db := setupExportDB(t)
	monday := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	seedReservation(t, db, "CCCC00003-1", monday, models.StatusPending)

	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	dir := t.TempDir()
	exporter := NewExporter(db, dir, &logger)

	path, err := exporter.ScheduleFile(context.Background(), monday.AddDate(0, 0, -1), monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "schedule_2024-01-07_to_2024-01-09.xlsx"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

package service

import (
	"context"
	"testing"
	"time"

	"mixlab/internal/database"
	"mixlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScanPayload(t *testing.T) {
	tests := []struct {
		payload string
		want    string
		wantErr bool
	}{
		{"BookingID:ABC123XYZ-1", "ABC123XYZ-1", false},
		{"  BookingID:ABC123XYZ-2", "ABC123XYZ-2", false},
		{"ABC123XYZ-3", "ABC123XYZ-3", false},
		{"BookingID:", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScanPayload(tt.payload)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrBadScanPayload, tt.payload)
			continue
		}
		require.NoError(t, err, tt.payload)
		assert.Equal(t, tt.want, got)
	}
}

func TestCheckInOutcomes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	confirmed, err := env.svc.CreateManualReservation(ctx, singleRequest(monday, 10, 1), testOwner(), models.StatusConfirmed)
	require.NoError(t, err)
	seq := confirmed.SequenceIDs[0]

	r, err := env.svc.CheckIn(ctx, models.QRPayloadPrefix+seq, "desk")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckIn, r.Status)

	// Scanning the same pass twice is the ticket-reuse case.
	_, err = env.svc.CheckIn(ctx, models.QRPayloadPrefix+seq, "desk")
	assert.ErrorIs(t, err, ErrAlreadyUsed)

	_, err = env.svc.CheckIn(ctx, "BookingID:NOPE00000-1", "desk")
	assert.ErrorIs(t, err, database.ErrReservationNotFound)

	pending, err := env.svc.CreateReservation(ctx, singleRequest(monday, 12, 1), testOwner())
	require.NoError(t, err)
	_, err = env.svc.CheckIn(ctx, pending.SequenceIDs[0], "desk")
	assert.ErrorIs(t, err, ErrNotConfirmed)

	cancelled, err := env.svc.CreateManualReservation(ctx, singleRequest(monday, 14, 1), testOwner(), models.StatusConfirmed)
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, cancelled.SequenceIDs[0], models.StatusCancelled, "admin", false)
	require.NoError(t, err)
	_, err = env.svc.CheckIn(ctx, cancelled.SequenceIDs[0], "desk")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCheckInStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A broken store must not be confused with an unknown reference.
	require.NoError(t, env.db.Close())
	_, err := env.svc.CheckIn(ctx, "BookingID:ABC123XYZ-1", "desk")
	require.Error(t, err)
	assert.NotErrorIs(t, err, database.ErrReservationNotFound)
}

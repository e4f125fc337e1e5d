package service

import (
	"context"
	"testing"
	"time"

	"mixlab/internal/models"
	"mixlab/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthStatsCompute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	_, err := env.svc.CreateManualReservation(ctx, singleRequest(monday, 10, 1), testOwner(), models.StatusConfirmed)
	require.NoError(t, err)
	_, err = env.svc.CreateManualReservation(ctx, singleRequest(monday, 11, 1), testOwner(), models.StatusDone)
	require.NoError(t, err)
	_, err = env.svc.CreateReservation(ctx, singleRequest(monday, 12, 1), testOwner())
	require.NoError(t, err)
	cancelled, err := env.svc.CreateReservation(ctx, singleRequest(monday, 13, 1), testOwner())
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, cancelled.SequenceIDs[0], models.StatusCancelled, "admin", false)
	require.NoError(t, err)

	stats := NewStatsService(env.db, repository.NewMemoryStatsCache(), testScheduleConfig(), env.svc.logger)
	stats.now = func() time.Time { return testNow.AddDate(0, 0, 1) }

	got, err := stats.MonthStats(ctx, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", got.Month)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 1, got.ByStatus[models.StatusConfirmed])
	assert.Equal(t, 1, got.ByStatus[models.StatusDone])
	assert.Equal(t, 1, got.ByStatus[models.StatusPending])
	assert.Equal(t, 1, got.ByStatus[models.StatusCancelled])
	assert.Equal(t, int64(1000), got.Revenue)
	assert.InDelta(t, 50.0, got.BookingRate, 0.001)
	// All four bookings fall within a week of the fixed clock; the
	// cancelled one is not upcoming.
	assert.Equal(t, 3, got.UpcomingWeek)
}

func TestMonthStatsCaching(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	_, err := env.svc.CreateManualReservation(ctx, singleRequest(monday, 10, 1), testOwner(), models.StatusConfirmed)
	require.NoError(t, err)

	clock := testNow
	stats := NewStatsService(env.db, repository.NewMemoryStatsCache(), testScheduleConfig(), env.svc.logger)
	stats.now = func() time.Time { return clock }

	got, err := stats.MonthStats(ctx, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)

	// A booking added while the cache is fresh is not visible yet.
	_, err = env.svc.CreateManualReservation(ctx, singleRequest(monday, 12, 1), testOwner(), models.StatusConfirmed)
	require.NoError(t, err)

	got, err = stats.MonthStats(ctx, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)

	// Past the TTL the value is recomputed.
	clock = clock.Add(31 * time.Minute)
	got, err = stats.MonthStats(ctx, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Total)
}

func TestMonthStatsBadMonth(t *testing.T) {
	env := newTestEnv(t)
	stats := NewStatsService(env.db, nil, testScheduleConfig(), env.svc.logger)
	_, err := stats.MonthStats(context.Background(), "January 2024")
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = stats.MonthStats(context.Background(), "2024-13")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

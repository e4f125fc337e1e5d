package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"mixlab/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats(computedAt time.Time) *models.CachedStats {
	return &models.CachedStats{
		Value: models.MonthStats{
			Month:    "2024-01",
			Total:    20,
			ByStatus: map[string]int{models.StatusConfirmed: 12, models.StatusCancelled: 3},
			Revenue:  6000,
		},
		ComputedAt: computedAt,
	}
}

func TestRedisStatsCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisStatsCache(client, 30*time.Minute)
	ctx := context.Background()

	got, err := cache.Get(ctx, "2024-01")
	require.NoError(t, err)
	assert.Nil(t, got)

	computedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, "2024-01", sampleStats(computedAt)))

	got, err = cache.Get(ctx, "2024-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Value.Total)
	assert.Equal(t, 12, got.Value.ByStatus[models.StatusConfirmed])
	assert.True(t, got.ComputedAt.Equal(computedAt))
}

func TestMemoryStatsCache(t *testing.T) {
	cache := NewMemoryStatsCache()
	ctx := context.Background()

	got, err := cache.Get(ctx, "2024-02")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "2024-02", sampleStats(time.Now())))
	got, err = cache.Get(ctx, "2024-02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01", got.Value.Month)
}

type failingCache struct{ err error }

func (f *failingCache) Get(context.Context, string) (*models.CachedStats, error) { return nil, f.err }
func (f *failingCache) Set(context.Context, string, *models.CachedStats) error   { return f.err }

func TestFailoverStatsCacheFallsBack(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	fallback := NewMemoryStatsCache()
	failover := NewFailoverStatsCache(&failingCache{err: errors.New("connection refused")}, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, failover.Set(ctx, "2024-03", sampleStats(time.Now())))

	got, err := failover.Get(ctx, "2024-03")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Value.Total)
}

func TestCachedStatsIsStale(t *testing.T) {
	now := time.Now()
	fresh := sampleStats(now.Add(-10 * time.Minute))
	stale := sampleStats(now.Add(-45 * time.Minute))

	assert.False(t, fresh.IsStale(now, 30*time.Minute))
	assert.True(t, stale.IsStale(now, 30*time.Minute))

	var nilStats *models.CachedStats
	assert.True(t, nilStats.IsStale(now, 30*time.Minute))
}

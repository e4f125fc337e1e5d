package repository

import (
	"context"
	"sync/atomic"
	"time"

	"mixlab/internal/domain"
	"mixlab/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStatsCache prefers the primary (redis) cache and falls back to
// memory when it errors, retrying the primary after a cooldown.
type FailoverStatsCache struct {
	primary   domain.StatsCache
	fallback  domain.StatsCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	downSince atomic.Int64
	cooldown  time.Duration
}

func NewFailoverStatsCache(primary, fallback domain.StatsCache, logger *zerolog.Logger) *FailoverStatsCache {
	return &FailoverStatsCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		cooldown: time.Minute,
	}
}

func (f *FailoverStatsCache) primaryUsable() bool {
	if !f.isDown.Load() {
		return true
	}
	if time.Since(time.Unix(f.downSince.Load(), 0)) > f.cooldown {
		f.isDown.Store(false)
		return true
	}
	return false
}

func (f *FailoverStatsCache) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary stats cache failed, falling back to memory")
	f.isDown.Store(true)
	f.downSince.Store(time.Now().Unix())
}

func (f *FailoverStatsCache) Get(ctx context.Context, month string) (*models.CachedStats, error) {
	if f.primaryUsable() {
		cached, err := f.primary.Get(ctx, month)
		if err == nil {
			return cached, nil
		}
		f.markDown(err)
	}
	return f.fallback.Get(ctx, month)
}

func (f *FailoverStatsCache) Set(ctx context.Context, month string, stats *models.CachedStats) error {
	// The fallback always gets the value so a redis outage never loses it.
	_ = f.fallback.Set(ctx, month, stats)

	if f.primaryUsable() {
		if err := f.primary.Set(ctx, month, stats); err != nil {
			f.markDown(err)
		}
	}
	return nil
}

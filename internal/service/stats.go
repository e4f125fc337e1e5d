package service

import (
	"context"
	"fmt"
	"time"

	"mixlab/internal/config"
	"mixlab/internal/domain"
	"mixlab/internal/models"

	"github.com/rs/zerolog"
)

// StatsService computes the dashboard aggregates. Results are cached as an
// explicit (value, computedAt) pair; staleness is decided here, with the
// TTL from config, never by hidden module state.
type StatsService struct {
	repo   domain.Repository
	cache  domain.StatsCache
	cfg    config.ScheduleConfig
	logger *zerolog.Logger

	now func() time.Time
}

func NewStatsService(repo domain.Repository, cache domain.StatsCache, cfg config.ScheduleConfig, logger *zerolog.Logger) *StatsService {
	return &StatsService{repo: repo, cache: cache, cfg: cfg, logger: logger, now: time.Now}
}

// MonthStats returns the aggregate for a "YYYY-MM" month, recomputing when
// the cached value is stale or absent.
func (s *StatsService) MonthStats(ctx context.Context, month string) (*models.MonthStats, error) {
	now := s.now()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, month)
		if err != nil {
			s.logger.Warn().Err(err).Str("month", month).Msg("stats cache read failed")
		} else if !cached.IsStale(now, s.cfg.CacheTTL()) {
			return &cached.Value, nil
		}
	}

	stats, err := s.compute(ctx, month, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, month, &models.CachedStats{Value: *stats, ComputedAt: now}); err != nil {
			s.logger.Warn().Err(err).Str("month", month).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context, month string, now time.Time) (*models.MonthStats, error) {
	monthStart, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w %q: expected YYYY-MM", ErrInvalidMonth, month)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	reservations, err := s.repo.GetByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	stats := &models.MonthStats{
		Month:    month,
		Total:    len(reservations),
		ByStatus: make(map[string]int),
	}
	billable := 0
	for _, r := range reservations {
		stats.ByStatus[r.Status]++
		if r.Status == models.StatusConfirmed || r.Status == models.StatusDone {
			billable++
		}
	}
	stats.Revenue = int64(billable) * int64(s.cfg.SessionRate)
	if stats.Total > 0 {
		stats.BookingRate = float64(billable) / float64(stats.Total) * 100
	}

	upcoming, err := s.repo.GetByDateRange(ctx, now, now.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	for _, r := range upcoming {
		if r.Active() {
			stats.UpcomingWeek++
		}
	}

	return stats, nil
}

package service

import (
	"context"
	"time"

	"mixlab/internal/models"
)

// DaySchedule returns one day's reservations ordered by start time, with the
// fully-booked flag for that day. Cancelled ones are included; the calendar
// greys them out, and the flag counts only active ones.
func (s *BookingService) DaySchedule(ctx context.Context, day time.Time) (models.CalendarDay, error) {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	reservations, err := s.repo.GetByDateRange(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return models.CalendarDay{}, err
	}
	active, err := s.repo.CountActiveOnDay(ctx, dayStart)
	if err != nil {
		return models.CalendarDay{}, err
	}

	return models.CalendarDay{
		Date:         dayStart,
		Reservations: reservations,
		FullyBooked:  active >= s.cfg.FullDayThreshold,
	}, nil
}

// CalendarGrid builds the month-view projection: one entry per day in
// [from, to) with that day's reservations and the fully-booked flag. The
// flag is a presentation heuristic (a count threshold), deliberately kept
// out of the engine's conflict logic.
func (s *BookingService) CalendarGrid(ctx context.Context, from, to time.Time) ([]models.CalendarDay, error) {
	reservations, err := s.repo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*models.Reservation)
	activeByDay := make(map[string]int)
	for _, r := range reservations {
		key := r.Start.Format("2006-01-02")
		byDay[key] = append(byDay[key], r)
		if r.Active() {
			activeByDay[key]++
		}
	}

	var days []models.CalendarDay
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		days = append(days, models.CalendarDay{
			Date:         day,
			Reservations: byDay[key],
			FullyBooked:  activeByDay[key] >= s.cfg.FullDayThreshold,
		})
	}
	return days, nil
}

package domain

import (
	"context"
	"time"

	"mixlab/internal/models"
)

// Repository is the persistence contract the booking service depends on.
// The sqlite store implements it; tests may substitute their own.
type Repository interface {
	CreateReservationGroup(ctx context.Context, group []*models.Reservation) error
	GetBySequenceID(ctx context.Context, sequenceID string) (*models.Reservation, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*models.Reservation, error)
	GetOverlapping(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	GetOwnerReservations(ctx context.Context, ownerRef string) ([]*models.Reservation, error)
	UpdateStatusWithVersion(ctx context.Context, sequenceID string, fromVersion int64, status string) error
	DeleteBySequenceID(ctx context.Context, sequenceID string) error
	CountActiveOnDay(ctx context.Context, day time.Time) (int, error)
}

// EventPublisher fans reservation lifecycle events out to subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier delivers a booking notification to the owner's contact address.
// Delivery is fire-and-forget: failures never roll back a status change.
type Notifier interface {
	Send(ctx context.Context, n models.Notification) error
}

// NotifyQueue accepts notifications for asynchronous, retried delivery.
type NotifyQueue interface {
	Enqueue(ctx context.Context, n models.Notification) error
}

// StatsCache stores the dashboard aggregate together with its computation
// time, so callers decide staleness explicitly.
type StatsCache interface {
	Get(ctx context.Context, month string) (*models.CachedStats, error)
	Set(ctx context.Context, month string, stats *models.CachedStats) error
}

package worker

import (
	"context"
	"errors"
	"time"

	"mixlab/internal/domain"
	"mixlab/internal/metrics"
	"mixlab/internal/models"

	"github.com/rs/zerolog"
)

const defaultQueueSize = 256

var ErrQueueFull = errors.New("notification queue is full")

// NotifyWorker delivers booking notifications asynchronously with retries.
// Delivery is best-effort: a notification that exhausts its retries is
// dropped with a log line and a metric, never propagated to the booking flow.
type NotifyWorker struct {
	notifier domain.Notifier
	policy   RetryPolicy
	queue    chan models.Notification
	logger   *zerolog.Logger
}

func NewNotifyWorker(notifier domain.Notifier, policy RetryPolicy, logger *zerolog.Logger) *NotifyWorker {
	if policy.MaxRetries == 0 {
		policy.MaxRetries = 5
	}
	if policy.InitialDelay == 0 {
		policy.InitialDelay = 2 * time.Second
	}
	if policy.MaxDelay == 0 {
		policy.MaxDelay = time.Minute
	}
	if policy.BackoffFactor == 0 {
		policy.BackoffFactor = 2
	}

	return &NotifyWorker{
		notifier: notifier,
		policy:   policy,
		queue:    make(chan models.Notification, defaultQueueSize),
		logger:   logger,
	}
}

// Enqueue hands a notification to the worker without blocking the caller.
func (w *NotifyWorker) Enqueue(_ context.Context, n models.Notification) error {
	select {
	case w.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run consumes the queue until ctx is cancelled.
func (w *NotifyWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-w.queue:
			w.deliver(ctx, n)
		}
	}
}

func (w *NotifyWorker) deliver(ctx context.Context, n models.Notification) {
	for attempt := 1; attempt <= w.policy.MaxRetries; attempt++ {
		err := w.notifier.Send(ctx, n)
		if err == nil {
			return
		}

		w.logger.Warn().Err(err).
			Str("type", n.Type).
			Str("sequence_id", n.SequenceID).
			Int("attempt", attempt).
			Msg("notification delivery failed")

		if attempt == w.policy.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.policy.NextDelay(attempt)):
		}
	}

	metrics.IncNotifyFailure()
	w.logger.Error().
		Str("type", n.Type).
		Str("sequence_id", n.SequenceID).
		Msg("notification dropped after retries")
}

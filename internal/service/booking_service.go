package service

import (
	"context"
	"fmt"
	"time"

	"mixlab/internal/config"
	"mixlab/internal/database"
	"mixlab/internal/domain"
	"mixlab/internal/events"
	"mixlab/internal/metrics"
	"mixlab/internal/models"
	"mixlab/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService is the reservation committer: it turns booking requests
// into committed reservation groups and owns the status lifecycle.
type BookingService struct {
	repo        domain.Repository
	eventBus    domain.EventPublisher
	notifyQueue domain.NotifyQueue
	generator   *schedule.Generator
	cfg         config.ScheduleConfig
	logger      *zerolog.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewBookingService(
	repo domain.Repository,
	eventBus domain.EventPublisher,
	notifyQueue domain.NotifyQueue,
	cfg config.ScheduleConfig,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:        repo,
		eventBus:    eventBus,
		notifyQueue: notifyQueue,
		generator: schedule.NewGenerator(schedule.Config{
			RecurrenceCount:  cfg.RecurrenceCount,
			MaxDurationHours: cfg.MaxDurationHours,
		}),
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// validatePolicy enforces the studio booking rules that sit outside the
// engine's correctness contract: no past dates, no closed days, opening
// hours, a horizon on how far ahead bookings may go.
func (s *BookingService) validatePolicy(req models.BookingRequest, baseStart time.Time) error {
	if len(s.cfg.Services) > 0 {
		known := false
		for _, svc := range s.cfg.Services {
			if svc == req.Service {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownService, req.Service)
		}
	}

	now := s.now()
	if baseStart.Before(now) {
		return ErrPastDate
	}
	if baseStart.After(now.AddDate(0, 0, s.cfg.MaxBookingDays)) {
		return ErrDateTooFar
	}
	if closed, ok := s.cfg.ClosedDay(); ok && baseStart.Weekday() == closed {
		return ErrClosedDay
	}
	if req.StartHour < s.cfg.OpenHour || req.StartHour+req.DurationHours > s.cfg.CloseHour {
		return ErrOutsideHours
	}
	return nil
}

// CreateReservation handles the self-service flow: the group starts Pending
// and the owner gets a received notification.
func (s *BookingService) CreateReservation(ctx context.Context, req models.BookingRequest, owner models.Owner) (*models.CommitResult, error) {
	return s.create(ctx, req, owner, models.StatusPending)
}

// CreateManualReservation is the administrator entry: it may start at any
// recognized status (defaults to Confirmed) but runs the same slot
// generation and conflict checking as the self-service flow.
func (s *BookingService) CreateManualReservation(ctx context.Context, req models.BookingRequest, owner models.Owner, status string) (*models.CommitResult, error) {
	if status == "" {
		status = models.StatusConfirmed
	}
	if !models.KnownStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return s.create(ctx, req, owner, status)
}

func (s *BookingService) create(ctx context.Context, req models.BookingRequest, owner models.Owner, status string) (*models.CommitResult, error) {
	slots, err := s.generator.Expand(req)
	if err != nil {
		return nil, err
	}
	if err := s.validatePolicy(req, slots[0].Start); err != nil {
		return nil, err
	}
	if i, j, ok := schedule.FindSelfConflict(slots); ok {
		return nil, fmt.Errorf("generated slots %d and %d overlap each other", i+1, j+1)
	}

	// Fast pre-check against a snapshot of the window. The authoritative
	// check runs again inside the commit transaction; this one exists to
	// answer most conflicts without opening a write transaction.
	existing, err := s.repo.GetOverlapping(ctx, slots[0].Start, slots[len(slots)-1].End)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing reservations: %w", err)
	}
	for i, slot := range slots {
		if blocking := schedule.FindConflict(slot, existing); blocking != nil {
			metrics.IncConflict()
			return nil, &database.ConflictError{
				SlotIndex: i,
				Start:     slot.Start,
				End:       slot.End,
				With:      blocking.SequenceID,
			}
		}
	}

	groupRef := NewGroupRef()
	group := make([]*models.Reservation, 0, len(slots))
	for i, slot := range slots {
		group = append(group, &models.Reservation{
			UID:        uuid.NewString(),
			GroupID:    groupRef,
			SequenceID: SequenceID(groupRef, i),
			OwnerRef:   owner.Ref,
			OwnerName:  owner.Name,
			OwnerEmail: owner.Email,
			Service:    req.Service,
			Start:      slot.Start,
			End:        slot.End,
			Duration:   req.DurationHours,
			Status:     status,
			Recurrence: req.Recurrence,
		})
	}

	if err := s.repo.CreateReservationGroup(ctx, group); err != nil {
		if database.IsConflict(err) {
			metrics.IncConflict()
		}
		return nil, err
	}

	metrics.IncReservations(req.Recurrence, len(group))
	s.publishEvent(events.EventReservationCreated, group[0], owner.Ref)
	s.enqueueNotification(ctx, models.NotifyBookingReceived, group[0], len(group))

	result := &models.CommitResult{GroupID: groupRef, SequenceIDs: make([]string, 0, len(group))}
	for _, r := range group {
		result.SequenceIDs = append(result.SequenceIDs, r.SequenceID)
	}

	s.logger.Info().
		Str("group_id", groupRef).
		Str("owner_ref", owner.Ref).
		Str("service", req.Service).
		Int("sessions", len(group)).
		Msg("reservation group committed")
	return result, nil
}

// UpdateStatus moves one reservation along the lifecycle. Illegal
// transitions are rejected unless force is set, in which case the overwrite
// is applied but logged and published as an override event.
func (s *BookingService) UpdateStatus(ctx context.Context, sequenceID, to, actor string, force bool) (*models.Reservation, error) {
	if !models.KnownStatus(to) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}

	r, err := s.repo.GetBySequenceID(ctx, sequenceID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(r.Status, to) {
		if !force {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, r.Status, to)
		}
		s.logger.Warn().
			Str("sequence_id", sequenceID).
			Str("from", r.Status).
			Str("to", to).
			Str("actor", actor).
			Msg("status transition forced outside the lifecycle")
		s.publishOverride(sequenceID, r.Status, to, actor)
	}

	if err := s.repo.UpdateStatusWithVersion(ctx, sequenceID, r.Version, to); err != nil {
		return nil, err
	}
	from := r.Status
	r.Status = to
	r.Version++

	switch to {
	case models.StatusConfirmed:
		s.publishEvent(events.EventReservationConfirmed, r, actor)
		// Confirmation email is fire-and-forget; a delivery failure never
		// rolls the status back.
		s.enqueueNotification(ctx, models.NotifyBookingConfirmed, r, 1)
	case models.StatusCancelled:
		s.publishEvent(events.EventReservationCancelled, r, actor)
	case models.StatusDone:
		s.publishEvent(events.EventReservationCompleted, r, actor)
	}

	s.logger.Info().
		Str("sequence_id", sequenceID).
		Str("from", from).
		Str("to", to).
		Str("actor", actor).
		Msg("reservation status updated")
	return r, nil
}

// DeleteReservation physically removes a reservation. It is deliberately
// outside the lifecycle: an administrative escape hatch that bypasses
// conflict and transition logic entirely.
func (s *BookingService) DeleteReservation(ctx context.Context, sequenceID, actor string) error {
	if err := s.repo.DeleteBySequenceID(ctx, sequenceID); err != nil {
		return err
	}
	s.logger.Warn().
		Str("sequence_id", sequenceID).
		Str("actor", actor).
		Msg("reservation deleted")
	return nil
}

// GetReservation returns one reservation by its sequence ID.
func (s *BookingService) GetReservation(ctx context.Context, sequenceID string) (*models.Reservation, error) {
	return s.repo.GetBySequenceID(ctx, sequenceID)
}

// GetGroup returns all reservations sharing a group reference, in slot order.
func (s *BookingService) GetGroup(ctx context.Context, groupID string) ([]*models.Reservation, error) {
	return s.repo.GetByGroupID(ctx, groupID)
}

// GetOwnerReservations lists an owner's recent and upcoming reservations.
func (s *BookingService) GetOwnerReservations(ctx context.Context, ownerRef string) ([]*models.Reservation, error) {
	return s.repo.GetOwnerReservations(ctx, ownerRef)
}

// CheckSlot reports whether a concrete slot is free. Read-only projection
// for the booking form; the commit transaction remains authoritative.
func (s *BookingService) CheckSlot(ctx context.Context, start, end time.Time) (bool, error) {
	existing, err := s.repo.GetOverlapping(ctx, start, end)
	if err != nil {
		return false, err
	}
	return !schedule.HasConflict(schedule.Slot{Start: start, End: end}, existing), nil
}

func (s *BookingService) publishEvent(eventType string, r *models.Reservation, actor string) {
	if s.eventBus == nil {
		return
	}
	payload := events.ReservationEventPayload{
		SequenceID: r.SequenceID,
		GroupID:    r.GroupID,
		OwnerRef:   r.OwnerRef,
		Service:    r.Service,
		Status:     r.Status,
		Start:      r.Start,
		End:        r.End,
		ChangedBy:  actor,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("sequence_id", r.SequenceID).Msg("publish event error")
	}
}

func (s *BookingService) publishOverride(sequenceID, from, to, actor string) {
	if s.eventBus == nil {
		return
	}
	payload := events.OverridePayload{SequenceID: sequenceID, FromStatus: from, ToStatus: to, Actor: actor}
	if err := s.eventBus.PublishJSON(events.EventStatusOverridden, payload); err != nil {
		s.logger.Error().Err(err).Str("sequence_id", sequenceID).Msg("publish override event error")
	}
}

func (s *BookingService) enqueueNotification(ctx context.Context, kind string, r *models.Reservation, sessions int) {
	if s.notifyQueue == nil || r.OwnerEmail == "" {
		return
	}
	n := models.Notification{
		Type:       kind,
		ToEmail:    r.OwnerEmail,
		ToName:     r.OwnerName,
		Service:    r.Service,
		Start:      r.Start,
		End:        r.End,
		SequenceID: r.SequenceID,
		GroupID:    r.GroupID,
		Sessions:   sessions,
	}
	if err := s.notifyQueue.Enqueue(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("sequence_id", r.SequenceID).Str("kind", kind).Msg("notification enqueue error")
	}
}

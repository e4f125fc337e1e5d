package service

import (
	"context"
	"errors"
	"strings"

	"mixlab/internal/database"
	"mixlab/internal/events"
	"mixlab/internal/metrics"
	"mixlab/internal/models"
)

// ParseScanPayload extracts the sequence ID from a scanned pass. The pass
// encodes "BookingID:<sequenceID>"; a bare sequence ID is also accepted so
// manual entry at the desk works.
func ParseScanPayload(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	payload = strings.TrimPrefix(payload, models.QRPayloadPrefix)
	if payload == "" {
		return "", ErrBadScanPayload
	}
	return payload, nil
}

// CheckIn resolves a scanned reference and moves the reservation to
// Check-in. Outcomes are distinct so the scanner UI can tell the operator
// exactly what happened: unknown reference, already used, cancelled, or not
// yet confirmed.
func (s *BookingService) CheckIn(ctx context.Context, payload, actor string) (*models.Reservation, error) {
	sequenceID, err := ParseScanPayload(payload)
	if err != nil {
		metrics.IncCheckIn("bad_payload")
		return nil, err
	}

	r, err := s.repo.GetBySequenceID(ctx, sequenceID)
	if err != nil {
		// Only a missing reservation is the operator's "not found"; a
		// storage failure is counted separately.
		if errors.Is(err, database.ErrReservationNotFound) {
			metrics.IncCheckIn("not_found")
		} else {
			metrics.IncCheckIn("error")
		}
		return nil, err
	}

	switch r.Status {
	case models.StatusCheckIn, models.StatusDone:
		metrics.IncCheckIn("already_used")
		return r, ErrAlreadyUsed
	case models.StatusCancelled:
		metrics.IncCheckIn("cancelled")
		return r, ErrCancelled
	case models.StatusConfirmed:
		// proceed
	default:
		metrics.IncCheckIn("not_confirmed")
		return r, ErrNotConfirmed
	}

	if err := s.repo.UpdateStatusWithVersion(ctx, sequenceID, r.Version, models.StatusCheckIn); err != nil {
		return nil, err
	}
	r.Status = models.StatusCheckIn
	r.Version++

	metrics.IncCheckIn("ok")
	s.publishEvent(events.EventReservationCheckedIn, r, actor)
	s.logger.Info().
		Str("sequence_id", sequenceID).
		Str("owner_ref", r.OwnerRef).
		Msg("reservation checked in")
	return r, nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mixlab/internal/models"
)

const reservationColumns = `id, uid, group_id, sequence_id, owner_ref, owner_name, owner_email,
        service, start_ts, end_ts, duration, status, recurrence, created_at, updated_at, version`

func scanReservation(row interface{ Scan(...any) error }) (*models.Reservation, error) {
	r := &models.Reservation{}
	var startTS, endTS int64
	err := row.Scan(
		&r.ID, &r.UID, &r.GroupID, &r.SequenceID, &r.OwnerRef, &r.OwnerName, &r.OwnerEmail,
		&r.Service, &startTS, &endTS, &r.Duration, &r.Status, &r.Recurrence,
		&r.CreatedAt, &r.UpdatedAt, &r.Version,
	)
	if err != nil {
		return nil, err
	}
	r.Start = time.Unix(startTS, 0).UTC()
	r.End = time.Unix(endTS, 0).UTC()
	return r, nil
}

// CreateReservationGroup writes every reservation of one request in a single
// transaction. Each slot is re-checked against the current non-cancelled set
// inside the transaction, so a conflicting concurrent commit is caught here
// even if the caller's pre-check ran against a stale read. On any conflict
// the whole group rolls back and a *ConflictError names the offending slot.
func (db *DB) CreateReservationGroup(ctx context.Context, group []*models.Reservation) error {
	if len(group) == 0 {
		return errors.New("empty reservation group")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const conflictQuery = `SELECT sequence_id FROM reservations
        WHERE status != ? AND start_ts < ? AND end_ts > ? LIMIT 1`

	for i, r := range group {
		var blocking string
		err := tx.QueryRowContext(ctx, conflictQuery,
			models.StatusCancelled, r.End.Unix(), r.Start.Unix()).Scan(&blocking)
		switch {
		case err == nil:
			return &ConflictError{SlotIndex: i, Start: r.Start, End: r.End, With: blocking}
		case errors.Is(err, sql.ErrNoRows):
			// slot is free
		default:
			return fmt.Errorf("failed to check slot %d: %w", i, err)
		}
	}

	const insertQuery = `INSERT INTO reservations (
            uid, group_id, sequence_id, owner_ref, owner_name, owner_email,
            service, start_ts, end_ts, duration, status, recurrence,
            created_at, updated_at, version
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now()
	for _, r := range group {
		result, err := tx.ExecContext(ctx, insertQuery,
			r.UID, r.GroupID, r.SequenceID, r.OwnerRef, r.OwnerName, r.OwnerEmail,
			r.Service, r.Start.Unix(), r.End.Unix(), r.Duration, r.Status, r.Recurrence,
			now, now, 1,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reservation %s: %w", r.SequenceID, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		r.ID = id
		r.CreatedAt = now
		r.UpdatedAt = now
		r.Version = 1
	}

	return tx.Commit()
}

// GetBySequenceID resolves the check-in lookup.
func (db *DB) GetBySequenceID(ctx context.Context, sequenceID string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE sequence_id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, sequenceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation %s: %w", sequenceID, err)
	}
	return r, nil
}

// GetByGroupID returns every reservation of a request, in slot order.
func (db *DB) GetByGroupID(ctx context.Context, groupID string) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE group_id = ? ORDER BY start_ts ASC`
	return db.queryReservations(ctx, query, groupID)
}

// GetOverlapping returns non-cancelled reservations intersecting [start, end).
func (db *DB) GetOverlapping(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
        WHERE status != ? AND start_ts < ? AND end_ts > ? ORDER BY start_ts ASC`
	return db.queryReservations(ctx, query, models.StatusCancelled, end.Unix(), start.Unix())
}

// GetByDateRange returns all reservations starting within [start, end),
// cancelled ones included; the calendar renders those too.
func (db *DB) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
        WHERE start_ts >= ? AND start_ts < ? ORDER BY start_ts ASC, created_at ASC`
	return db.queryReservations(ctx, query, start.Unix(), end.Unix())
}

// GetOwnerReservations returns an owner's reservations from two weeks back
// onward, newest first. Feeds the pass screen.
func (db *DB) GetOwnerReservations(ctx context.Context, ownerRef string) ([]*models.Reservation, error) {
	cutoff := time.Now().AddDate(0, 0, -14)
	query := `SELECT ` + reservationColumns + ` FROM reservations
        WHERE owner_ref = ? AND start_ts >= ? ORDER BY start_ts DESC`
	return db.queryReservations(ctx, query, ownerRef, cutoff.Unix())
}

func (db *DB) queryReservations(ctx context.Context, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

// UpdateStatusWithVersion applies a status change only when the row still
// carries the version the caller read. Every status write goes through this
// optimistic check so concurrent operators cannot clobber each other.
func (db *DB) UpdateStatusWithVersion(ctx context.Context, sequenceID string, fromVersion int64, status string) error {
	query := `UPDATE reservations SET status = ?, version = version + 1, updated_at = ?
        WHERE sequence_id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), sequenceID, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := db.GetBySequenceID(ctx, sequenceID); err != nil {
			return err
		}
		return ErrConcurrentModification
	}
	return nil
}

// DeleteBySequenceID physically removes one reservation. Administrative
// escape hatch; it bypasses all conflict and transition logic.
func (db *DB) DeleteBySequenceID(ctx context.Context, sequenceID string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE sequence_id = ?`, sequenceID)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// CountActiveOnDay counts non-cancelled reservations starting on the given
// day, in that day's location. The calendar uses it for the full-day flag.
func (db *DB) CountActiveOnDay(ctx context.Context, day time.Time) (int, error) {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `SELECT COUNT(*) FROM reservations
        WHERE status != ? AND start_ts >= ? AND start_ts < ?`
	var count int
	err := db.QueryRowContext(ctx, query, models.StatusCancelled, dayStart.Unix(), dayEnd.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

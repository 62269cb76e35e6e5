package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arenadesk/court-reservation/internal/model"
)

// ReservationRepo provides reads and writes on reservations.  All
// timestamps are stored in UTC; EndsAt is denormalized so the conflict
// scan is a single indexed range query.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, reference, resource_id, customer_name, customer_phone,
	starts_at, ends_at, duration_minutes, status, created_at, updated_at`

// CreateTx inserts a new reservation within an existing transaction
// and populates generated fields on the record.  The caller commits or
// rolls back.  A duplicate-key error from the unique index on
// (resource_id, confirmed_start) surfaces unchanged so callers can
// translate it with IsDuplicate.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (reference, resource_id, customer_name, customer_phone, starts_at, ends_at, duration_minutes, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.Reference, res.ResourceID, res.CustomerName, res.CustomerPhone,
		res.StartsAt.UTC(), res.EndsAt.UTC(), res.DurationMinutes, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	return scanReservation(tx.QueryRowContext(ctx, sel, res.ID), res)
}

// FindConflicts returns CONFIRMED reservations on resourceID whose
// half-open interval overlaps [start, end).  An empty slice means the
// slot is free; that is never an error.
func (r *ReservationRepo) FindConflicts(ctx context.Context, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	return findConflicts(ctx, r.db.QueryContext, resourceID, start, end)
}

// FindConflictsTx is FindConflicts inside the booking transaction.
func (r *ReservationRepo) FindConflictsTx(ctx context.Context, tx *sql.Tx, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	return findConflicts(ctx, tx.QueryContext, resourceID, start, end)
}

type queryFunc func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func findConflicts(ctx context.Context, query queryFunc, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	// Half-open overlap: starts_at < end AND ends_at > start.
	const q = `SELECT ` + reservationCols + `
	           FROM reservations
	           WHERE resource_id = ? AND status = 'CONFIRMED' AND starts_at < ? AND ends_at > ?
	           ORDER BY starts_at`
	rows, err := query(ctx, q, resourceID, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListByResourceAndRange returns all reservations (any status) on a
// resource whose interval touches [start, end), in chronological order.
func (r *ReservationRepo) ListByResourceAndRange(ctx context.Context, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations
	           WHERE resource_id = ? AND starts_at < ? AND ends_at > ?
	           ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, resourceID, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// GetForUpdateTx loads a reservation and locks its row for the rest of
// the transaction.  Used by the cancellation flow to make the status
// check and the update atomic.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ? FOR UPDATE`
	var res model.Reservation
	if err := scanReservation(tx.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// UpdateStatusTx transitions a reservation's status inside the
// caller's transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func scanReservation(row *sql.Row, res *model.Reservation) error {
	var phone sql.NullString
	if err := row.Scan(
		&res.ID, &res.Reference, &res.ResourceID, &res.CustomerName, &phone,
		&res.StartsAt, &res.EndsAt, &res.DurationMinutes, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return err
	}
	if phone.Valid {
		p := phone.String
		res.CustomerPhone = &p
	}
	return nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		var phone sql.NullString
		if err := rows.Scan(
			&res.ID, &res.Reference, &res.ResourceID, &res.CustomerName, &phone,
			&res.StartsAt, &res.EndsAt, &res.DurationMinutes, &res.Status,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			res.CustomerPhone = &p
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenadesk/court-reservation/internal/model"
)

// HoursRepo stores the weekly open/close grid of each venue.  One row
// per (venue, weekday); a missing row means no configured window for
// that weekday.
type HoursRepo struct {
	db *sql.DB
}

// NewHoursRepo returns an HoursRepo bound to the given database.
func NewHoursRepo(db *sql.DB) *HoursRepo { return &HoursRepo{db: db} }

// OpenWindow returns the configured open/close minutes for a venue
// weekday.  ok is false when no row exists; that is a normal answer.
func (r *HoursRepo) OpenWindow(ctx context.Context, venueID uint64, weekday int) (int, int, bool, error) {
	const q = `SELECT open_minute, close_minute FROM business_hours WHERE venue_id = ? AND weekday = ?`
	var open, close int
	err := r.db.QueryRowContext(ctx, q, venueID, weekday).Scan(&open, &close)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	return open, close, true, nil
}

// OpenWindowTx is OpenWindow against a caller-owned transaction so the
// booking pipeline sees a snapshot consistent with its resource lock.
func (r *HoursRepo) OpenWindowTx(ctx context.Context, tx *sql.Tx, venueID uint64, weekday int) (int, int, bool, error) {
	const q = `SELECT open_minute, close_minute FROM business_hours WHERE venue_id = ? AND weekday = ?`
	var open, close int
	err := tx.QueryRowContext(ctx, q, venueID, weekday).Scan(&open, &close)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	return open, close, true, nil
}

// ListByVenue returns the full configured grid for a venue ordered by
// weekday.
func (r *HoursRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.BusinessHours, error) {
	const q = `SELECT id, venue_id, weekday, open_minute, close_minute
	           FROM business_hours WHERE venue_id = ? ORDER BY weekday`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BusinessHours, 0, 7)
	for rows.Next() {
		var h model.BusinessHours
		if err := rows.Scan(&h.ID, &h.VenueID, &h.Weekday, &h.OpenMinute, &h.CloseMinute); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ReplaceWeek atomically swaps a venue's whole weekly grid: delete
// then bulk insert in one transaction.  Entries must already be
// validated (weekday 0-6, open < close, no duplicate weekday).
func (r *HoursRepo) ReplaceWeek(ctx context.Context, venueID uint64, entries []model.BusinessHours) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const del = `DELETE FROM business_hours WHERE venue_id = ?`
	if _, err := tx.ExecContext(ctx, del, venueID); err != nil {
		return err
	}

	if len(entries) > 0 {
		query := `INSERT INTO business_hours (venue_id, weekday, open_minute, close_minute) VALUES `
		args := make([]interface{}, 0, len(entries)*4)
		for i, h := range entries {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, venueID, h.Weekday, h.OpenMinute, h.CloseMinute)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

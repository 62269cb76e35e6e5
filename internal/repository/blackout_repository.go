package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/arenadesk/court-reservation/internal/model"
)

// BlackoutRepo stores administrative blackout windows and their
// optional per-resource scoping (blackout_resources join table).
type BlackoutRepo struct {
	db *sql.DB
}

// NewBlackoutRepo returns a BlackoutRepo bound to the given database.
func NewBlackoutRepo(db *sql.DB) *BlackoutRepo { return &BlackoutRepo{db: db} }

const blackoutCols = `id, venue_id, reason, start_date, end_date, start_minute, end_minute, is_active, created_at, updated_at`

// Create inserts a blackout window and its scoped resource rows in one
// transaction, then reads the record back.
func (r *BlackoutRepo) Create(ctx context.Context, w *model.BlackoutWindow) error {
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

	const q = `INSERT INTO blackout_windows (venue_id, reason, start_date, end_date, start_minute, end_minute)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		w.VenueID, w.Reason, w.StartDate.Format("2006-01-02"), w.EndDate.Format("2006-01-02"),
		w.StartMinute, w.EndMinute)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)

	if len(w.ResourceIDs) > 0 {
		query := `INSERT INTO blackout_resources (blackout_id, resource_id) VALUES `
		args := make([]interface{}, 0, len(w.ResourceIDs)*2)
		for i, rid := range w.ResourceIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, w.ID, rid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	const sel = `SELECT ` + blackoutCols + ` FROM blackout_windows WHERE id = ?`
	if err := scanBlackout(tx.QueryRowContext(ctx, sel, w.ID), w); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// FindCandidates returns active windows for a venue whose date range
// may touch the candidate interval [start, end).  The date filter is
// deliberately one day loose on each side because the exact match
// depends on the venue's timezone; the availability package applies
// the precise two-stage filter.
func (r *BlackoutRepo) FindCandidates(ctx context.Context, venueID uint64, start, end time.Time) ([]model.BlackoutWindow, error) {
	return r.findCandidates(ctx, r.db.QueryContext, venueID, start, end)
}

// FindCandidatesTx is FindCandidates inside the booking transaction.
func (r *BlackoutRepo) FindCandidatesTx(ctx context.Context, tx *sql.Tx, venueID uint64, start, end time.Time) ([]model.BlackoutWindow, error) {
	return r.findCandidates(ctx, tx.QueryContext, venueID, start, end)
}

func (r *BlackoutRepo) findCandidates(ctx context.Context, query queryFunc, venueID uint64, start, end time.Time) ([]model.BlackoutWindow, error) {
	loStr := start.UTC().AddDate(0, 0, -1).Format("2006-01-02")
	hiStr := end.UTC().AddDate(0, 0, 1).Format("2006-01-02")
	const q = `SELECT ` + blackoutCols + `
	           FROM blackout_windows
	           WHERE venue_id = ? AND is_active = 1 AND start_date <= ? AND end_date >= ?
	           ORDER BY id`
	rows, err := query(ctx, q, venueID, hiStr, loStr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectBlackouts(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadResourceIDs(ctx, query, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByVenue returns every blackout window of a venue, newest first,
// including inactive ones so administrators can audit history.
func (r *BlackoutRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.BlackoutWindow, error) {
	const q = `SELECT ` + blackoutCols + ` FROM blackout_windows WHERE venue_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectBlackouts(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadResourceIDs(ctx, r.db.QueryContext, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive toggles a window's active flag; deactivation is how
// blackouts are lifted (history is never deleted).
func (r *BlackoutRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE blackout_windows SET is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlackoutNotFound
	}
	return nil
}

// loadResourceIDs populates the scoped resource list for each window
// in one IN query.
func (r *BlackoutRepo) loadResourceIDs(ctx context.Context, query queryFunc, windows []model.BlackoutWindow) error {
	if len(windows) == 0 {
		return nil
	}
	index := make(map[uint64]int, len(windows))
	ids := make([]interface{}, 0, len(windows))
	placeholders := make([]string, 0, len(windows))
	for i := range windows {
		windows[i].ResourceIDs = []uint64{}
		index[windows[i].ID] = i
		ids = append(ids, windows[i].ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT blackout_id, resource_id FROM blackout_resources
	      WHERE blackout_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY blackout_id, resource_id`
	rows, err := query(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bid, rid uint64
		if err := rows.Scan(&bid, &rid); err != nil {
			return err
		}
		if i, ok := index[bid]; ok {
			windows[i].ResourceIDs = append(windows[i].ResourceIDs, rid)
		}
	}
	return rows.Err()
}

func scanBlackout(row *sql.Row, w *model.BlackoutWindow) error {
	var startMin, endMin sql.NullInt64
	if err := row.Scan(
		&w.ID, &w.VenueID, &w.Reason, &w.StartDate, &w.EndDate,
		&startMin, &endMin, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return err
	}
	if startMin.Valid {
		v := int(startMin.Int64)
		w.StartMinute = &v
	}
	if endMin.Valid {
		v := int(endMin.Int64)
		w.EndMinute = &v
	}
	return nil
}

func collectBlackouts(rows *sql.Rows) ([]model.BlackoutWindow, error) {
	out := make([]model.BlackoutWindow, 0)
	for rows.Next() {
		var w model.BlackoutWindow
		var startMin, endMin sql.NullInt64
		if err := rows.Scan(
			&w.ID, &w.VenueID, &w.Reason, &w.StartDate, &w.EndDate,
			&startMin, &endMin, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if startMin.Valid {
			v := int(startMin.Int64)
			w.StartMinute = &v
		}
		if endMin.Valid {
			v := int(endMin.Int64)
			w.EndMinute = &v
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

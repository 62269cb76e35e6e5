package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arenadesk/court-reservation/internal/model"
)

// VenueRepo provides CRUD operations for venues.  A venue's timezone
// is stored as an IANA name and validated at the handler layer before
// it reaches the database.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *VenueRepo) DB() *sql.DB { return r.db }

// Create inserts a new venue and reads the row back to populate
// generated fields (ID, flags, timestamps).
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, timezone) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Timezone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	const sel = `SELECT id, name, timezone, is_active, created_at, updated_at FROM venues WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, v.ID).
		Scan(&v.ID, &v.Name, &v.Timezone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID returns a venue by ID or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT id, name, timezone, is_active, created_at, updated_at FROM venues WHERE id = ?`
	var v model.Venue
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.Name, &v.Timezone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns all venues ordered by ID.  Inactive venues are
// included; callers filter if they only want bookable ones.
func (r *VenueRepo) List(ctx context.Context) ([]*model.Venue, error) {
	const q = `SELECT id, name, timezone, is_active, created_at, updated_at FROM venues ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Venue, 0)
	for rows.Next() {
		v := new(model.Venue)
		if err := rows.Scan(&v.ID, &v.Name, &v.Timezone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update changes a venue's name and timezone.  ErrVenueNotFound is
// returned when no row was touched.
func (r *VenueRepo) Update(ctx context.Context, id uint64, name, timezone string) error {
	const q = `UPDATE venues SET name = ?, timezone = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, timezone, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// SetActive toggles the venue's active flag.
func (r *VenueRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE venues SET is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arenadesk/court-reservation/internal/availability"
	"github.com/arenadesk/court-reservation/internal/model"
)

// ResourceRepo provides operations on bookable courts/fields.
type ResourceRepo struct {
	db *sql.DB
}

// NewResourceRepo returns a ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

// Create inserts a new resource under a venue and reads the row back.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	const q = `INSERT INTO resources (venue_id, name, sport) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.VenueID, res.Name, res.Sport)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	const sel = `SELECT id, venue_id, name, sport, is_active, created_at, updated_at FROM resources WHERE id = ?`
	var sport sql.NullString
	if err := r.db.QueryRowContext(ctx, sel, res.ID).
		Scan(&res.ID, &res.VenueID, &res.Name, &sport, &res.IsActive, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}
	if sport.Valid {
		s := sport.String
		res.Sport = &s
	}
	return nil
}

// GetByID returns a resource by ID or ErrResourceNotFound.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (*model.Resource, error) {
	const q = `SELECT id, venue_id, name, sport, is_active, created_at, updated_at FROM resources WHERE id = ?`
	var res model.Resource
	var sport sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&res.ID, &res.VenueID, &res.Name, &sport, &res.IsActive, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if sport.Valid {
		s := sport.String
		res.Sport = &s
	}
	return &res, nil
}

// ListByVenue returns all resources belonging to a venue ordered by ID.
func (r *ResourceRepo) ListByVenue(ctx context.Context, venueID uint64) ([]*model.Resource, error) {
	const q = `SELECT id, venue_id, name, sport, is_active, created_at, updated_at
	           FROM resources WHERE venue_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Resource, 0)
	for rows.Next() {
		res := new(model.Resource)
		var sport sql.NullString
		if err := rows.Scan(&res.ID, &res.VenueID, &res.Name, &sport, &res.IsActive, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		if sport.Valid {
			s := sport.String
			res.Sport = &s
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// SetActive toggles the resource's active flag.
func (r *ResourceRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE resources SET is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// Info resolves the availability view of a resource: owning venue,
// combined active flag and the venue's timezone as a loaded Location.
// The resource counts as active only when its venue is active too.
func (r *ResourceRepo) Info(ctx context.Context, id uint64) (availability.ResourceInfo, error) {
	const q = `SELECT r.id, r.venue_id, r.is_active AND v.is_active, v.timezone
	           FROM resources r
	           JOIN venues v ON v.id = r.venue_id
	           WHERE r.id = ?`
	return scanResourceInfo(r.db.QueryRowContext(ctx, q, id))
}

// InfoForUpdateTx is Info inside a transaction, locking the resource
// row with SELECT ... FOR UPDATE.  Concurrent booking attempts on the
// same resource serialize on this lock, which closes the race between
// the conflict scan and the reservation insert.
func (r *ResourceRepo) InfoForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (availability.ResourceInfo, error) {
	const q = `SELECT r.id, r.venue_id, r.is_active AND v.is_active, v.timezone
	           FROM resources r
	           JOIN venues v ON v.id = r.venue_id
	           WHERE r.id = ?
	           FOR UPDATE`
	return scanResourceInfo(tx.QueryRowContext(ctx, q, id))
}

func scanResourceInfo(row *sql.Row) (availability.ResourceInfo, error) {
	var info availability.ResourceInfo
	var tz string
	if err := row.Scan(&info.ID, &info.VenueID, &info.Active, &tz); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return availability.ResourceInfo{}, ErrResourceNotFound
		}
		return availability.ResourceInfo{}, err
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		// A bad timezone row should not make the resource unbookable.
		loc = time.UTC
	}
	info.Location = loc
	return info, nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arenadesk/court-reservation/internal/availability"
	"github.com/arenadesk/court-reservation/internal/model"
)

// CheckerStores bundles the repositories into the read-only store
// interfaces the availability checker consumes.  Used for dry-run
// availability queries that do not intend to write.
type CheckerStores struct {
	Resources    *ResourceRepo
	Hours        *HoursRepo
	Reservations *ReservationRepo
	Blackouts    *BlackoutRepo
}

func (s CheckerStores) ResourceInfo(ctx context.Context, resourceID uint64) (availability.ResourceInfo, error) {
	return s.Resources.Info(ctx, resourceID)
}

func (s CheckerStores) OpenWindow(ctx context.Context, venueID uint64, weekday int) (int, int, bool, error) {
	return s.Hours.OpenWindow(ctx, venueID, weekday)
}

func (s CheckerStores) FindConflicts(ctx context.Context, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	return s.Reservations.FindConflicts(ctx, resourceID, start, end)
}

func (s CheckerStores) FindCandidates(ctx context.Context, venueID uint64, start, end time.Time) ([]model.BlackoutWindow, error) {
	return s.Blackouts.FindCandidates(ctx, venueID, start, end)
}

// TxCheckerStores is CheckerStores bound to a booking transaction.
// Resolving the resource locks its row (SELECT ... FOR UPDATE), so the
// whole decide-then-insert sequence is serialized per resource: two
// concurrent requests for the same court cannot both pass the conflict
// scan.
type TxCheckerStores struct {
	Tx           *sql.Tx
	Resources    *ResourceRepo
	Hours        *HoursRepo
	Reservations *ReservationRepo
	Blackouts    *BlackoutRepo
}

func (s TxCheckerStores) ResourceInfo(ctx context.Context, resourceID uint64) (availability.ResourceInfo, error) {
	return s.Resources.InfoForUpdateTx(ctx, s.Tx, resourceID)
}

func (s TxCheckerStores) OpenWindow(ctx context.Context, venueID uint64, weekday int) (int, int, bool, error) {
	return s.Hours.OpenWindowTx(ctx, s.Tx, venueID, weekday)
}

func (s TxCheckerStores) FindConflicts(ctx context.Context, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	return s.Reservations.FindConflictsTx(ctx, s.Tx, resourceID, start, end)
}

func (s TxCheckerStores) FindCandidates(ctx context.Context, venueID uint64, start, end time.Time) ([]model.BlackoutWindow, error) {
	return s.Blackouts.FindCandidatesTx(ctx, s.Tx, venueID, start, end)
}

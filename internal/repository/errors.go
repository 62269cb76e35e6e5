// Package repository holds the data access layer.  Each entity gets
// its own repo type bound to a *sql.DB; write paths that must be
// atomic expose Tx variants operating on a caller-owned transaction.
// Sentinel errors defined here let handlers map failure scenarios to
// HTTP responses without string matching.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrVenueNotFound is returned when a venue lookup matches no row.
var ErrVenueNotFound = errors.New("venue not found")

// ErrResourceNotFound is returned when a resource lookup matches no row.
var ErrResourceNotFound = errors.New("resource not found")

// ErrReservationNotFound is returned when a reservation lookup matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrBlackoutNotFound is returned when a blackout window lookup matches no row.
var ErrBlackoutNotFound = errors.New("blackout window not found")

// IsDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  The booking flow relies on this to translate the
// unique index on (resource_id, confirmed_start) into a business
// conflict instead of a raw database error.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

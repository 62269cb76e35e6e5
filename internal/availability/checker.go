package availability

import (
	"context"
	"errors"
	"time"

	"github.com/arenadesk/court-reservation/internal/model"
)

// Reason identifies why a booking request was rejected by policy.
type Reason string

const (
	ReasonOutsideBusinessHours Reason = "OUTSIDE_BUSINESS_HOURS"
	ReasonResourceInactive     Reason = "RESOURCE_INACTIVE"
	ReasonTimeConflict         Reason = "TIME_CONFLICT"
	ReasonBlackout             Reason = "BLACKOUT"
)

// Decision is the outcome of a booking availability check.  A policy
// rejection is an expected, first-class result: handlers branch on
// Reason to tell the customer why the slot is unavailable.  Only
// infrastructure failures surface as errors from Decide.
type Decision struct {
	Accepted bool   `json:"accepted"`
	Reason   Reason `json:"reason,omitempty"`
}

// ErrInvalidDuration is returned for a non-positive duration.  It is a
// validation fault, distinct from any policy rejection.
var ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

// ResourceInfo is the slice of a resource the checker needs: which
// venue it belongs to, whether it may take bookings, and the venue's
// timezone for civil-calendar computations.
type ResourceInfo struct {
	ID       uint64
	VenueID  uint64
	Active   bool
	Location *time.Location
}

// ResourceStore resolves a resource identifier.  Implementations must
// return a not-found error (not a zero ResourceInfo) for unknown IDs
// so that callers can distinguish "bad request" from "rejected".
type ResourceStore interface {
	ResourceInfo(ctx context.Context, resourceID uint64) (ResourceInfo, error)
}

// HoursStore answers the configured open window for a venue weekday.
// ok is false when no window is configured for that weekday; that is a
// normal answer, not an error.
type HoursStore interface {
	OpenWindow(ctx context.Context, venueID uint64, weekday int) (openMinute, closeMinute int, ok bool, err error)
}

// ReservationStore scans currently-confirmed reservations on a
// resource that overlap the half-open interval [start, end).  An empty
// result is the normal "no conflict" answer.
type ReservationStore interface {
	FindConflicts(ctx context.Context, resourceID uint64, start, end time.Time) ([]model.Reservation, error)
}

// BlackoutStore returns active blackout windows for a venue whose date
// range may touch [start, end).  The store only prefilters; the exact
// two-stage day/minute match happens in this package so that the rule
// lives in one place.
type BlackoutStore interface {
	FindCandidates(ctx context.Context, venueID uint64, start, end time.Time) ([]model.BlackoutWindow, error)
}

// Policy fixes the two behaviors the business-hours check leaves open.
// Both default to the strict side and must be set explicitly to relax.
type Policy struct {
	// OpenWhenUnset treats a weekday with no configured hours as
	// unrestricted instead of closed.
	OpenWhenUnset bool
	// EnforceEndWithinHours requires the whole reservation to fit
	// inside the open window.  When false only the start minute is
	// checked, so a booking may legally run past closing.
	EnforceEndWithinHours bool
}

// Checker composes the three policy checks into a single decision.
// All dependencies are read-only; the checker itself holds no state
// between calls.
type Checker struct {
	resources    ResourceStore
	hours        HoursStore
	reservations ReservationStore
	blackouts    BlackoutStore
	policy       Policy
}

// NewChecker wires a Checker from its stores.  All stores must be
// non-nil.
func NewChecker(resources ResourceStore, hours HoursStore, reservations ReservationStore, blackouts BlackoutStore, policy Policy) *Checker {
	if resources == nil || hours == nil || reservations == nil || blackouts == nil {
		panic("nil store passed to NewChecker")
	}
	return &Checker{
		resources:    resources,
		hours:        hours,
		reservations: reservations,
		blackouts:    blackouts,
		policy:       policy,
	}
}

// Decide runs the availability pipeline for a proposed reservation of
// durationMinutes starting at start on resourceID.  Checks run in a
// fixed order and short-circuit on the first failure, so the reported
// reason is deterministic even when several checks would fail:
//
//  1. resource exists and is active
//  2. business hours (weekday and minute of day in the venue's local calendar)
//  3. conflict scan against CONFIRMED reservations
//  4. blackout windows
//
// An unknown resource propagates the store's not-found error; a
// non-positive duration returns ErrInvalidDuration.  Everything else
// that goes wrong is an infrastructure fault.
func (c *Checker) Decide(ctx context.Context, resourceID uint64, start time.Time, durationMinutes int) (Decision, error) {
	if durationMinutes <= 0 {
		return Decision{}, ErrInvalidDuration
	}

	res, err := c.resources.ResourceInfo(ctx, resourceID)
	if err != nil {
		return Decision{}, err
	}
	if !res.Active {
		return Decision{Accepted: false, Reason: ReasonResourceInactive}, nil
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	// Weekday and minute of day come from the venue's civil calendar,
	// not the UTC calendar day.
	loc := res.Location
	if loc == nil {
		loc = time.UTC
	}
	local := start.In(loc)
	weekday := int(local.Weekday())
	startMinute := local.Hour()*60 + local.Minute()

	within, err := c.withinHours(ctx, res.VenueID, weekday, startMinute, durationMinutes)
	if err != nil {
		return Decision{}, err
	}
	if !within {
		return Decision{Accepted: false, Reason: ReasonOutsideBusinessHours}, nil
	}

	conflicts, err := c.reservations.FindConflicts(ctx, resourceID, start, end)
	if err != nil {
		return Decision{}, err
	}
	if len(conflicts) > 0 {
		return Decision{Accepted: false, Reason: ReasonTimeConflict}, nil
	}

	candidates, err := c.blackouts.FindCandidates(ctx, res.VenueID, start, end)
	if err != nil {
		return Decision{}, err
	}
	for _, w := range candidates {
		if Blocks(w, resourceID, start, end, loc) {
			return Decision{Accepted: false, Reason: ReasonBlackout}, nil
		}
	}

	return Decision{Accepted: true}, nil
}

// withinHours evaluates the business-hours gate for a start minute and
// duration on a given venue weekday.
func (c *Checker) withinHours(ctx context.Context, venueID uint64, weekday, startMinute, durationMinutes int) (bool, error) {
	open, close, ok, err := c.hours.OpenWindow(ctx, venueID, weekday)
	if err != nil {
		return false, err
	}
	if !ok {
		// No window configured for this weekday: closed unless policy
		// says otherwise.
		return c.policy.OpenWhenUnset, nil
	}
	if startMinute < open || startMinute >= close {
		return false, nil
	}
	if c.policy.EnforceEndWithinHours && startMinute+durationMinutes > close {
		return false, nil
	}
	return true, nil
}

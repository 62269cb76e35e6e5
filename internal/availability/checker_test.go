package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arenadesk/court-reservation/internal/model"
)

var errStubNotFound = errors.New("resource not found")

type stubResources map[uint64]ResourceInfo

func (s stubResources) ResourceInfo(_ context.Context, id uint64) (ResourceInfo, error) {
	r, ok := s[id]
	if !ok {
		return ResourceInfo{}, errStubNotFound
	}
	return r, nil
}

type hoursKey struct {
	venue   uint64
	weekday int
}

type stubHours map[hoursKey][2]int

func (s stubHours) OpenWindow(_ context.Context, venueID uint64, weekday int) (int, int, bool, error) {
	w, ok := s[hoursKey{venueID, weekday}]
	if !ok {
		return 0, 0, false, nil
	}
	return w[0], w[1], true, nil
}

type stubReservations []model.Reservation

func (s stubReservations) FindConflicts(_ context.Context, resourceID uint64, start, end time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range s {
		if r.ResourceID != resourceID || r.Status != model.ReservationConfirmed {
			continue
		}
		if Overlaps(start, end, r.StartsAt, r.EndsAt) {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubBlackouts []model.BlackoutWindow

func (s stubBlackouts) FindCandidates(_ context.Context, venueID uint64, _, _ time.Time) ([]model.BlackoutWindow, error) {
	var out []model.BlackoutWindow
	for _, w := range s {
		if w.VenueID == venueID {
			out = append(out, w)
		}
	}
	return out, nil
}

// 2026-03-02 is a Monday, 2026-03-03 a Tuesday.
var (
	monday  = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
)

// newScenario builds the reference setup: resource 1 at venue 10 (UTC),
// Monday hours 08:00-22:00, one confirmed reservation Monday 14:00-15:00,
// and a whole-day blackout covering Tuesday.
func newScenario(policy Policy) *Checker {
	resources := stubResources{
		1: {ID: 1, VenueID: 10, Active: true, Location: time.UTC},
		2: {ID: 2, VenueID: 10, Active: false, Location: time.UTC},
	}
	hours := stubHours{
		{10, int(time.Monday)}: {480, 1320},
	}
	reservations := stubReservations{
		{
			ID:         77,
			ResourceID: 1,
			StartsAt:   monday.Add(14 * time.Hour),
			EndsAt:     monday.Add(15 * time.Hour),
			Status:     model.ReservationConfirmed,
		},
	}
	blackouts := stubBlackouts{
		{
			ID:        5,
			VenueID:   10,
			StartDate: tuesday,
			EndDate:   tuesday,
			IsActive:  true,
		},
	}
	return NewChecker(resources, hours, reservations, blackouts, policy)
}

func decide(t *testing.T, c *Checker, resourceID uint64, start time.Time, minutes int) Decision {
	t.Helper()
	d, err := c.Decide(context.Background(), resourceID, start, minutes)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	return d
}

func TestDecide_ReferenceScenario(t *testing.T) {
	c := newScenario(Policy{EnforceEndWithinHours: true})

	// Overlapping the existing 14:00-15:00 reservation.
	if d := decide(t, c, 1, monday.Add(14*time.Hour+30*time.Minute), 30); d.Accepted || d.Reason != ReasonTimeConflict {
		t.Fatalf("14:30 request: got %+v, want TIME_CONFLICT", d)
	}
	// Back-to-back at 15:00 is not a conflict.
	if d := decide(t, c, 1, monday.Add(15*time.Hour), 30); !d.Accepted {
		t.Fatalf("15:00 request: got %+v, want accepted", d)
	}
	// 23:00 is after closing.
	if d := decide(t, c, 1, monday.Add(23*time.Hour), 30); d.Accepted || d.Reason != ReasonOutsideBusinessHours {
		t.Fatalf("23:00 request: got %+v, want OUTSIDE_BUSINESS_HOURS", d)
	}
	// Tuesday has no configured hours, so the hours gate fires before
	// the blackout is even consulted.
	if d := decide(t, c, 1, tuesday.Add(10*time.Hour), 60); d.Accepted || d.Reason != ReasonOutsideBusinessHours {
		t.Fatalf("tuesday request: got %+v, want OUTSIDE_BUSINESS_HOURS", d)
	}
}

func TestDecide_BlackoutOnOpenDay(t *testing.T) {
	// Give Tuesday open hours so the request passes the hours gate and
	// the conflict scan, leaving the blackout as the only rejection.
	c := newScenario(Policy{EnforceEndWithinHours: true})
	c.hours.(stubHours)[hoursKey{10, int(time.Tuesday)}] = [2]int{480, 1320}

	if d := decide(t, c, 1, tuesday.Add(10*time.Hour), 60); d.Accepted || d.Reason != ReasonBlackout {
		t.Fatalf("tuesday request: got %+v, want BLACKOUT", d)
	}
}

func TestDecide_RejectionOrderIsDeterministic(t *testing.T) {
	// Tuesday request fails hours AND blackout; hours must win because
	// the pipeline short-circuits in a fixed order.
	c := newScenario(Policy{EnforceEndWithinHours: true})
	if d := decide(t, c, 1, tuesday.Add(10*time.Hour), 60); d.Reason != ReasonOutsideBusinessHours {
		t.Fatalf("got reason %q, want OUTSIDE_BUSINESS_HOURS first", d.Reason)
	}
}

func TestDecide_InactiveResource(t *testing.T) {
	c := newScenario(Policy{})
	if d := decide(t, c, 2, monday.Add(10*time.Hour), 60); d.Accepted || d.Reason != ReasonResourceInactive {
		t.Fatalf("inactive resource: got %+v, want RESOURCE_INACTIVE", d)
	}
}

func TestDecide_UnknownResourceIsError(t *testing.T) {
	c := newScenario(Policy{})
	_, err := c.Decide(context.Background(), 99, monday.Add(10*time.Hour), 60)
	if !errors.Is(err, errStubNotFound) {
		t.Fatalf("unknown resource: got err %v, want store not-found error", err)
	}
}

func TestDecide_InvalidDuration(t *testing.T) {
	c := newScenario(Policy{})
	for _, minutes := range []int{0, -30} {
		if _, err := c.Decide(context.Background(), 1, monday.Add(10*time.Hour), minutes); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("duration %d: got err %v, want ErrInvalidDuration", minutes, err)
		}
	}
}

func TestDecide_UnsetWeekdayPolicy(t *testing.T) {
	// Wednesday has no hours row.  Closed by default; open when the
	// policy says so.
	wednesday := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	closed := newScenario(Policy{})
	if d := decide(t, closed, 1, wednesday, 60); d.Accepted || d.Reason != ReasonOutsideBusinessHours {
		t.Fatalf("default policy: got %+v, want OUTSIDE_BUSINESS_HOURS", d)
	}

	open := newScenario(Policy{OpenWhenUnset: true})
	if d := decide(t, open, 1, wednesday, 60); !d.Accepted {
		t.Fatalf("OpenWhenUnset: got %+v, want accepted", d)
	}
}

func TestDecide_EndWithinHoursPolicy(t *testing.T) {
	// 21:30 + 60min runs past the 22:00 close.
	start := monday.Add(21*time.Hour + 30*time.Minute)

	strict := newScenario(Policy{EnforceEndWithinHours: true})
	if d := decide(t, strict, 1, start, 60); d.Accepted || d.Reason != ReasonOutsideBusinessHours {
		t.Fatalf("strict policy: got %+v, want OUTSIDE_BUSINESS_HOURS", d)
	}

	// Legacy behavior checks only the start minute.
	legacy := newScenario(Policy{EnforceEndWithinHours: false})
	if d := decide(t, legacy, 1, start, 60); !d.Accepted {
		t.Fatalf("legacy policy: got %+v, want accepted", d)
	}

	// Ending exactly at close is fine either way.
	if d := decide(t, strict, 1, monday.Add(21*time.Hour), 60); !d.Accepted {
		t.Fatalf("ends at close: got %+v, want accepted", d)
	}
}

func TestDecide_VenueLocalCalendar(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	resources := stubResources{
		1: {ID: 1, VenueID: 10, Active: true, Location: loc},
	}
	hours := stubHours{
		{10, int(time.Monday)}: {480, 1320},
	}
	c := NewChecker(resources, hours, stubReservations{}, stubBlackouts{}, Policy{EnforceEndWithinHours: true})

	// 2026-03-03 00:30 UTC is still Monday 21:30 in Sao Paulo (UTC-3),
	// inside the Monday window even though it is Tuesday in UTC.
	start := time.Date(2026, 3, 3, 0, 30, 0, 0, time.UTC)
	if d := decide(t, c, 1, start, 30); !d.Accepted {
		t.Fatalf("local Monday evening: got %+v, want accepted", d)
	}

	// 2026-03-02 01:00 UTC is Sunday 22:00 local; no Sunday hours.
	start = time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	if d := decide(t, c, 1, start, 30); d.Accepted || d.Reason != ReasonOutsideBusinessHours {
		t.Fatalf("local Sunday night: got %+v, want OUTSIDE_BUSINESS_HOURS", d)
	}
}

func TestDecide_ReadChecksAreIdempotent(t *testing.T) {
	c := newScenario(Policy{EnforceEndWithinHours: true})
	start := monday.Add(15 * time.Hour)

	first := decide(t, c, 1, start, 30)
	for i := 0; i < 5; i++ {
		if d := decide(t, c, 1, start, 30); d != first {
			t.Fatalf("call %d: got %+v, want %+v", i, d, first)
		}
	}
}

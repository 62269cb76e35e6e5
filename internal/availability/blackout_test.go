package availability

import (
	"testing"
	"time"

	"github.com/arenadesk/court-reservation/internal/model"
)

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBlocks_WholeDayWindow(t *testing.T) {
	w := model.BlackoutWindow{
		VenueID:   10,
		StartDate: date(2026, 3, 3),
		EndDate:   date(2026, 3, 5),
		IsActive:  true,
	}
	in := date(2026, 3, 4).Add(10 * time.Hour)
	if !Blocks(w, 1, in, in.Add(time.Hour), time.UTC) {
		t.Fatal("request inside the date range should be blocked")
	}
	before := date(2026, 3, 2).Add(10 * time.Hour)
	if Blocks(w, 1, before, before.Add(time.Hour), time.UTC) {
		t.Fatal("request the day before the range should pass")
	}
	after := date(2026, 3, 6).Add(10 * time.Hour)
	if Blocks(w, 1, after, after.Add(time.Hour), time.UTC) {
		t.Fatal("request the day after the range should pass")
	}
}

func TestBlocks_InactiveWindowIgnored(t *testing.T) {
	w := model.BlackoutWindow{
		VenueID:   10,
		StartDate: date(2026, 3, 3),
		EndDate:   date(2026, 3, 3),
		IsActive:  false,
	}
	in := date(2026, 3, 3).Add(10 * time.Hour)
	if Blocks(w, 1, in, in.Add(time.Hour), time.UTC) {
		t.Fatal("inactive window must never block")
	}
}

func TestBlocks_ResourceScoping(t *testing.T) {
	w := model.BlackoutWindow{
		VenueID:     10,
		StartDate:   date(2026, 3, 3),
		EndDate:     date(2026, 3, 3),
		ResourceIDs: []uint64{2, 3},
		IsActive:    true,
	}
	in := date(2026, 3, 3).Add(10 * time.Hour)
	if Blocks(w, 1, in, in.Add(time.Hour), time.UTC) {
		t.Fatal("resource 1 is not in the scoped list")
	}
	if !Blocks(w, 2, in, in.Add(time.Hour), time.UTC) {
		t.Fatal("resource 2 is in the scoped list")
	}

	// Empty list means the whole venue.
	w.ResourceIDs = nil
	if !Blocks(w, 1, in, in.Add(time.Hour), time.UTC) {
		t.Fatal("empty scope must block every resource")
	}
}

func TestBlocks_RecurringMinuteWindow(t *testing.T) {
	// Maintenance 06:00-08:00 every day of the range.
	w := model.BlackoutWindow{
		VenueID:     10,
		StartDate:   date(2026, 3, 2),
		EndDate:     date(2026, 3, 6),
		StartMinute: intPtr(360),
		EndMinute:   intPtr(480),
		IsActive:    true,
	}
	day := date(2026, 3, 4)

	morning := day.Add(7 * time.Hour)
	if !Blocks(w, 1, morning, morning.Add(time.Hour), time.UTC) {
		t.Fatal("07:00-08:00 falls inside the recurring window")
	}
	// Back-to-back with the window end.
	eight := day.Add(8 * time.Hour)
	if Blocks(w, 1, eight, eight.Add(time.Hour), time.UTC) {
		t.Fatal("08:00-09:00 only touches the window boundary")
	}
	afternoon := day.Add(15 * time.Hour)
	if Blocks(w, 1, afternoon, afternoon.Add(time.Hour), time.UTC) {
		t.Fatal("afternoon request is outside the minute window")
	}
	// Straddling the window start.
	straddle := day.Add(5*time.Hour + 30*time.Minute)
	if !Blocks(w, 1, straddle, straddle.Add(time.Hour), time.UTC) {
		t.Fatal("05:30-06:30 overlaps the window start")
	}
}

func TestBlocks_CandidateCrossingMidnight(t *testing.T) {
	// Window blocks early mornings; the candidate runs 23:30-00:30
	// into a covered day, so its morning half must match.
	w := model.BlackoutWindow{
		VenueID:     10,
		StartDate:   date(2026, 3, 2),
		EndDate:     date(2026, 3, 3),
		StartMinute: intPtr(0),
		EndMinute:   intPtr(120),
		IsActive:    true,
	}
	start := date(2026, 3, 2).Add(23*time.Hour + 30*time.Minute)
	if !Blocks(w, 1, start, start.Add(time.Hour), time.UTC) {
		t.Fatal("candidate spilling past midnight into the window must be blocked")
	}
}

func TestBusyFromBlackouts(t *testing.T) {
	day := date(2026, 3, 4)
	windows := []model.BlackoutWindow{
		{ // recurring 06:00-08:00, applies
			VenueID:     10,
			StartDate:   date(2026, 3, 2),
			EndDate:     date(2026, 3, 6),
			StartMinute: intPtr(360),
			EndMinute:   intPtr(480),
			IsActive:    true,
		},
		{ // different dates, must not contribute
			VenueID:   10,
			StartDate: date(2026, 3, 10),
			EndDate:   date(2026, 3, 12),
			IsActive:  true,
		},
		{ // scoped to another resource
			VenueID:     10,
			StartDate:   date(2026, 3, 4),
			EndDate:     date(2026, 3, 4),
			ResourceIDs: []uint64{9},
			IsActive:    true,
		},
	}

	busy := BusyFromBlackouts(windows, 1, day, time.UTC)
	if len(busy) != 1 {
		t.Fatalf("expected 1 busy interval, got %d", len(busy))
	}
	if !busy[0].Start.Equal(day.Add(6*time.Hour)) || !busy[0].End.Equal(day.Add(8*time.Hour)) {
		t.Fatalf("unexpected interval %v-%v", busy[0].Start, busy[0].End)
	}

	// A whole-day window swallows the full day.
	wholeDay := []model.BlackoutWindow{{
		VenueID:   10,
		StartDate: date(2026, 3, 4),
		EndDate:   date(2026, 3, 4),
		IsActive:  true,
	}}
	busy = BusyFromBlackouts(wholeDay, 1, day, time.UTC)
	if len(busy) != 1 {
		t.Fatalf("expected 1 busy interval, got %d", len(busy))
	}
	if !busy[0].Start.Equal(day) || !busy[0].End.Equal(day.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected interval %v-%v", busy[0].Start, busy[0].End)
	}
}

package availability

import (
	"time"

	"github.com/arenadesk/court-reservation/internal/model"
)

const minutesPerDay = 24 * 60

// Blocks reports whether the blackout window w blocks a candidate
// reservation [start, end) on resourceID.  The match is a two-stage
// filter: stage one narrows by calendar days in the venue's local
// calendar, stage two narrows by the recurring minute-of-day sub-range
// within the matched days.  A window without a minute sub-range blocks
// every matched day entirely.
func Blocks(w model.BlackoutWindow, resourceID uint64, start, end time.Time, loc *time.Location) bool {
	if !w.IsActive {
		return false
	}
	if !appliesToResource(w, resourceID) {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}

	// Stage 1: calendar-day overlap.  The window covers the closed
	// date range [StartDate, EndDate]; widen it to a half-open range
	// ending at the first instant after EndDate so the generic
	// evaluator applies.  The candidate's days are taken from its
	// local start and its last covered instant (end is exclusive).
	candFirst := localDate(start, loc)
	candLast := localDate(end.Add(-time.Nanosecond), loc)
	winStart := dateOnly(w.StartDate)
	winEnd := dateOnly(w.EndDate).AddDate(0, 0, 1)
	if !Overlaps(candFirst, candLast.AddDate(0, 0, 1), winStart, winEnd) {
		return false
	}

	// Stage 2: minute-of-day sub-range, recurring daily.
	if w.StartMinute == nil || w.EndMinute == nil {
		return true
	}
	local := start.In(loc)
	startMinute := local.Hour()*60 + local.Minute()
	durMinutes := int(end.Sub(start) / time.Minute)
	return minuteSpanOverlaps(startMinute, durMinutes, *w.StartMinute, *w.EndMinute)
}

// appliesToResource checks the window's resource scoping: an empty
// list means every resource at the venue.
func appliesToResource(w model.BlackoutWindow, resourceID uint64) bool {
	if len(w.ResourceIDs) == 0 {
		return true
	}
	for _, id := range w.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}

// minuteSpanOverlaps compares a candidate minute span of durMinutes
// beginning at startMinute against the recurring window [wStart,
// wEnd).  A candidate running a full day or longer touches every
// minute of some covered day; one crossing midnight is split into its
// evening and morning halves.
func minuteSpanOverlaps(startMinute, durMinutes, wStart, wEnd int) bool {
	if durMinutes >= minutesPerDay {
		return true
	}
	endMinute := startMinute + durMinutes
	if endMinute <= minutesPerDay {
		return MinutesOverlap(startMinute, endMinute, wStart, wEnd)
	}
	return MinutesOverlap(startMinute, minutesPerDay, wStart, wEnd) ||
		MinutesOverlap(0, endMinute-minutesPerDay, wStart, wEnd)
}

// BusyFromBlackouts converts the blackout windows that apply to
// resourceID on the local day containing dayStart into busy intervals,
// for use with FreeSlots.  dayStart must be local midnight of the day
// being rendered.  A whole-day window yields one interval covering the
// full day; a minute sub-range yields the matching slice of the day.
func BusyFromBlackouts(windows []model.BlackoutWindow, resourceID uint64, dayStart time.Time, loc *time.Location) []Interval {
	if loc == nil {
		loc = time.UTC
	}
	dayEnd := dayStart.AddDate(0, 0, 1)
	var busy []Interval
	for _, w := range windows {
		if !Blocks(w, resourceID, dayStart, dayEnd, loc) {
			continue
		}
		if w.StartMinute == nil || w.EndMinute == nil {
			busy = append(busy, Interval{Start: dayStart, End: dayEnd})
			continue
		}
		busy = append(busy, Interval{
			Start: dayStart.Add(time.Duration(*w.StartMinute) * time.Minute),
			End:   dayStart.Add(time.Duration(*w.EndMinute) * time.Minute),
		})
	}
	return busy
}

// localDate returns midnight UTC of t's calendar date in loc, so that
// dates from different venues compare on day boundaries alone.
func localDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateOnly strips any time-of-day component from a DATE column value.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

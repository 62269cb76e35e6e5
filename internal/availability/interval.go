// Package availability decides whether a proposed reservation may be
// committed, given a venue's business hours, existing confirmed
// reservations and administrative blackout windows.  It is a pure
// decision library: all persistence is reached through the small store
// interfaces declared in checker.go, and policy rejections are values,
// not errors.
package availability

import "time"

// Interval is a half-open time range [Start, End).  Using half-open
// intervals makes back-to-back bookings non-overlapping: a reservation
// ending at 11:00 and one starting at 11:00 never conflict.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.  Zero-length or inverted intervals never
// overlap anything; callers are expected to reject those as invalid
// input before getting here.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aEnd.After(aStart) || !bEnd.After(bStart) {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// MinutesOverlap is Overlaps for minute-of-day values.  It is used for
// the recurring daily sub-range of blackout windows and for business
// hour windows, where only the time of day matters.
func MinutesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	if aEnd <= aStart || bEnd <= bStart {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

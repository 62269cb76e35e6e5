package availability

import "time"

// FreeSlots returns the start times within [openStart, openEnd) where
// a reservation of length duration would not overlap any busy
// interval.  Candidate starts advance by step from openStart; starts
// in the past (before now) are skipped.
//
// All times are expected to be in the same location.
func FreeSlots(openStart, openEnd time.Time, duration, step time.Duration, busy []Interval, now time.Time) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !openEnd.After(openStart) {
		return nil
	}

	var slots []time.Time
	for t := openStart; !t.Add(duration).After(openEnd); t = t.Add(step) {
		if t.Before(now) {
			continue
		}
		if !overlapsAny(t, t.Add(duration), busy) {
			slots = append(slots, t)
		}
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

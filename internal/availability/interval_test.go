package availability

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(0), at(60), at(0), at(60), true},
		{"contained", at(0), at(60), at(15), at(45), true},
		{"partial front", at(0), at(60), at(-30), at(30), true},
		{"partial back", at(0), at(60), at(30), at(90), true},
		{"disjoint before", at(0), at(60), at(-120), at(-60), false},
		{"disjoint after", at(0), at(60), at(120), at(180), false},
		{"back to back, b after a", at(0), at(60), at(60), at(120), false},
		{"back to back, b before a", at(60), at(120), at(0), at(60), false},
		{"one minute overlap", at(0), at(60), at(59), at(120), true},
		{"zero-length b at a start", at(0), at(60), at(0), at(0), false},
		{"zero-length b inside a", at(0), at(60), at(30), at(30), false},
		{"inverted b", at(0), at(60), at(45), at(15), false},
		{"inverted a", at(45), at(15), at(0), at(60), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMinutesOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"inside window", 600, 660, 480, 1320, true},
		{"ends at window start", 420, 480, 480, 1320, false},
		{"starts at window end", 1320, 1380, 480, 1320, false},
		{"straddles open", 450, 510, 480, 1320, true},
		{"straddles close", 1300, 1360, 480, 1320, true},
		{"zero-length inside window", 600, 600, 480, 1320, false},
		{"inverted span inside window", 660, 600, 480, 1320, false},
	}
	for _, tc := range cases {
		if got := MinutesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: MinutesOverlap = %v, want %v", tc.name, got, tc.want)
		}
	}
}

package availability

import (
	"testing"
	"time"
)

func TestFreeSlots_AroundBusyInterval(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	openStart := day.Add(8 * time.Hour)
	openEnd := day.Add(12 * time.Hour)

	busy := []Interval{
		{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
	}

	slots := FreeSlots(openStart, openEnd, time.Hour, time.Hour, busy, day)
	// 08:00, 10:00 and 11:00; 09:00 is taken.
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d (%v)", len(slots), slots)
	}
	want := []time.Time{day.Add(8 * time.Hour), day.Add(10 * time.Hour), day.Add(11 * time.Hour)}
	for i, w := range want {
		if !slots[i].Equal(w) {
			t.Fatalf("slot %d: got %s, want %s", i, slots[i], w)
		}
	}
}

func TestFreeSlots_SkipsPastStarts(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := day.Add(9*time.Hour + 10*time.Minute)

	slots := FreeSlots(day.Add(8*time.Hour), day.Add(11*time.Hour), time.Hour, time.Hour, nil, now)
	// 08:00 and 09:00 have passed.
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Equal(day.Add(10 * time.Hour)) {
		t.Fatalf("got %s, want 10:00", slots[0])
	}
}

func TestFreeSlots_DegenerateInput(t *testing.T) {
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if s := FreeSlots(day, day.Add(time.Hour), 0, time.Hour, nil, day); s != nil {
		t.Fatalf("zero duration: got %v, want nil", s)
	}
	if s := FreeSlots(day, day, time.Hour, time.Hour, nil, day); s != nil {
		t.Fatalf("empty window: got %v, want nil", s)
	}
	if s := FreeSlots(day, day.Add(30*time.Minute), time.Hour, time.Hour, nil, day); s != nil {
		t.Fatalf("duration longer than window: got %v, want nil", s)
	}
}

package model

import "time"

// BlackoutWindow is an administrative block on bookings: maintenance,
// private events, holidays.  It covers a closed date range
// [StartDate, EndDate] in the venue's local calendar.  When
// StartMinute/EndMinute are set, the block recurs daily within that
// minute-of-day sub-range on each covered day; when absent, each
// covered day is blocked entirely.
//
// ResourceIDs scopes the block to specific resources.  An empty list
// means every resource at the venue is blocked.
//
// Invariants: StartDate <= EndDate; when the minute range is present,
// StartMinute < EndMinute.
type BlackoutWindow struct {
	ID          uint64    `json:"id"`                     // blackout_windows.id
	VenueID     uint64    `json:"venue_id"`               // blackout_windows.venue_id
	Reason      string    `json:"reason"`                 // blackout_windows.reason
	StartDate   time.Time `json:"start_date"`             // blackout_windows.start_date (date only)
	EndDate     time.Time `json:"end_date"`               // blackout_windows.end_date (date only)
	StartMinute *int      `json:"start_minute,omitempty"` // blackout_windows.start_minute (nullable)
	EndMinute   *int      `json:"end_minute,omitempty"`   // blackout_windows.end_minute (nullable)
	ResourceIDs []uint64  `json:"resource_ids"`           // blackout_resources.resource_id
	IsActive    bool      `json:"is_active"`              // blackout_windows.is_active
	CreatedAt   time.Time `json:"created_at"`             // blackout_windows.created_at
	UpdatedAt   time.Time `json:"updated_at"`             // blackout_windows.updated_at
}

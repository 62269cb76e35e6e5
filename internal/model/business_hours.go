package model

// BusinessHours describes one weekday's open window for a venue.
// Minutes are counted from local midnight, so 480 means 08:00 and
// 1320 means 22:00.  The window is half-open: a venue open 480–1320
// closes at the first instant of minute 1320.  A weekday with no row
// has no open window; whether that means "closed" or "unrestricted"
// is a policy decision made by the availability checker, not here.
//
// Invariant: OpenMinute < CloseMinute.
type BusinessHours struct {
	ID          uint64 `json:"id"`           // business_hours.id
	VenueID     uint64 `json:"venue_id"`     // business_hours.venue_id
	Weekday     int    `json:"weekday"`      // business_hours.weekday (0=Sunday … 6=Saturday)
	OpenMinute  int    `json:"open_minute"`  // business_hours.open_minute
	CloseMinute int    `json:"close_minute"` // business_hours.close_minute
}

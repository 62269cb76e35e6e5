package model

import "time"

// Venue is a sports facility that owns bookable resources.  Business
// hours and blackout windows are configured per venue, and all civil
// time computations (weekday, minute of day) happen in the venue's
// IANA timezone rather than UTC.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the venue.
//  Timezone  – IANA timezone name (e.g. "America/Sao_Paulo").
//  IsActive  – whether the venue accepts bookings.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Venue struct {
	ID        uint64    `json:"id"`         // venues.id
	Name      string    `json:"name"`       // venues.name
	Timezone  string    `json:"timezone"`   // venues.timezone
	IsActive  bool      `json:"is_active"`  // venues.is_active
	CreatedAt time.Time `json:"created_at"` // venues.created_at
	UpdatedAt time.Time `json:"updated_at"` // venues.updated_at
}

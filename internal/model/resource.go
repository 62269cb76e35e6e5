package model

import "time"

// Resource is a bookable court or field inside a venue.  Only active
// resources may receive new reservations; deactivating a resource
// hides it from availability queries without touching history.
type Resource struct {
	ID        uint64    `json:"id"`              // resources.id
	VenueID   uint64    `json:"venue_id"`        // resources.venue_id
	Name      string    `json:"name"`            // resources.name
	Sport     *string   `json:"sport,omitempty"` // resources.sport (nullable)
	IsActive  bool      `json:"is_active"`       // resources.is_active
	CreatedAt time.Time `json:"created_at"`      // resources.created_at
	UpdatedAt time.Time `json:"updated_at"`      // resources.updated_at
}

package model

import "time"

// Reservation statuses.  Only CONFIRMED reservations participate in
// conflict checks; CANCELLED and COMPLETED rows are history.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Reservation records a booking of a resource for a half-open time
// interval [StartsAt, EndsAt).  EndsAt is always StartsAt plus
// DurationMinutes; it is stored denormalized so conflict scans can be
// expressed as a single indexed range query.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – opaque UUID handed to the customer.
//  ResourceID      – resource being reserved.
//  CustomerName    – who the slot is for.
//  CustomerPhone   – contact for notifications (optional).
//  StartsAt        – start instant, stored in UTC.
//  EndsAt          – end instant, stored in UTC.
//  DurationMinutes – length of the reservation, always > 0.
//  Status          – CONFIRMED, CANCELLED or COMPLETED.
type Reservation struct {
	ID              uint64    `json:"id"`                       // reservations.id
	Reference       string    `json:"reference"`                // reservations.reference
	ResourceID      uint64    `json:"resource_id"`              // reservations.resource_id
	CustomerName    string    `json:"customer_name"`            // reservations.customer_name
	CustomerPhone   *string   `json:"customer_phone,omitempty"` // reservations.customer_phone (nullable)
	StartsAt        time.Time `json:"starts_at"`                // reservations.starts_at
	EndsAt          time.Time `json:"ends_at"`                  // reservations.ends_at
	DurationMinutes int       `json:"duration_minutes"`         // reservations.duration_minutes
	Status          string    `json:"status"`                   // reservations.status
	CreatedAt       time.Time `json:"created_at"`               // reservations.created_at
	UpdatedAt       time.Time `json:"updated_at"`               // reservations.updated_at
}

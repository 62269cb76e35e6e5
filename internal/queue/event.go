// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a reservation commits.
// It carries enough information for downstream consumers (WhatsApp/SMS
// notifiers, analytics) to act without querying the primary database.
type ReservationConfirmedEvent struct {
	EventID         string  `json:"event_id"`
	ReservationID   uint64  `json:"reservation_id"`
	Reference       string  `json:"reference"`
	VenueID         uint64  `json:"venue_id"`
	VenueName       string  `json:"venue_name"`
	ResourceID      uint64  `json:"resource_id"`
	ResourceName    string  `json:"resource_name"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone,omitempty"`
	StartsAt        string  `json:"starts_at"`
	EndsAt          string  `json:"ends_at"`
	DurationMinutes int     `json:"duration_minutes"`
	ConfirmedAt     string  `json:"confirmed_at"`
}

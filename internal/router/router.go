// Package router wires HTTP routes to their handlers.  No route
// requires authentication; venue administration is expected to sit
// behind a trusted gateway.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arenadesk/court-reservation/internal/handler"
)

// Middlewares carries the optional Redis-backed middleware applied to
// selected routes.  Either field may be nil-equivalent pass-through.
type Middlewares struct {
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers the health check endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterVenues registers venue and resource administration plus the
// public browse endpoints.  Browse GETs go through the response cache.
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, mw Middlewares) {
	e.POST("/v1/venues", v.CreateVenue)
	e.GET("/v1/venues", v.ListVenues, mw.Cache)
	e.PUT("/v1/venues/:id", v.UpdateVenue)
	e.DELETE("/v1/venues/:id", v.DeactivateVenue)

	e.POST("/v1/venues/:id/resources", v.CreateResource)
	e.GET("/v1/venues/:id/resources", v.ListResources, mw.Cache)
	e.DELETE("/v1/resources/:id", v.DeactivateResource)
}

// RegisterHours registers the weekly business-hours grid endpoints.
func RegisterHours(e *echo.Echo, h *handler.HoursHandler, mw Middlewares) {
	e.PUT("/v1/venues/:id/hours", h.ReplaceWeek)
	e.GET("/v1/venues/:id/hours", h.List, mw.Cache)
}

// RegisterBlackouts registers the blackout window endpoints.
func RegisterBlackouts(e *echo.Echo, b *handler.BlackoutHandler) {
	e.POST("/v1/venues/:id/blackouts", b.Create)
	e.GET("/v1/venues/:id/blackouts", b.ListByVenue)
	e.DELETE("/v1/blackouts/:id", b.Deactivate)
}

// RegisterAvailability registers the free-slot listing.  The cache TTL
// is short because the underlying data changes with every booking.
func RegisterAvailability(e *echo.Echo, a *handler.AvailabilityHandler, mw Middlewares) {
	e.GET("/v1/resources/:id/availability", a.Slots, mw.Cache)
}

// RegisterBookings registers the reservation lifecycle endpoints.  The
// create route is rate limited per client IP.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, mw Middlewares) {
	e.POST("/v1/resources/:id/reservations", b.Create, mw.RateLimit)
	e.GET("/v1/resources/:id/reservations", b.ListByDay)
	e.DELETE("/v1/reservations/:id", b.Cancel)
}

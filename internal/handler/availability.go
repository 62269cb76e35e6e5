package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arenadesk/court-reservation/internal/availability"
	"github.com/arenadesk/court-reservation/internal/repository"
)

// AvailabilityHandler renders the bookable start times of a resource
// for one local day.  It reuses the same stores as the booking pipeline
// but never writes; what it shows is advisory and the booking endpoint
// re-checks under its lock.
type AvailabilityHandler struct {
	Resources    *repository.ResourceRepo
	Hours        *repository.HoursRepo
	Reservations *repository.ReservationRepo
	Blackouts    *repository.BlackoutRepo
	Policy       availability.Policy
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(resources *repository.ResourceRepo, hours *repository.HoursRepo, reservations *repository.ReservationRepo, blackouts *repository.BlackoutRepo, policy availability.Policy) *AvailabilityHandler {
	if resources == nil || hours == nil || reservations == nil || blackouts == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{
		Resources:    resources,
		Hours:        hours,
		Reservations: reservations,
		Blackouts:    blackouts,
		Policy:       policy,
	}
}

// Slots handles GET /v1/resources/:id/availability.  Query parameters:
// date (YYYY-MM-DD, required), duration in minutes (default 60) and
// step in minutes (default 30).  The response lists RFC 3339 start
// times at which a reservation of the requested duration would be
// accepted.
func (h *AvailabilityHandler) Slots(c echo.Context) error {
	resourceID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
	}
	ctx := c.Request().Context()
	info, err := h.Resources.Info(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	day, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), info.Location)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	duration := 60
	if v := c.QueryParam("duration"); v != "" {
		duration, err = strconv.Atoi(v)
		if err != nil || duration <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be a positive number of minutes"})
		}
	}
	step := 30
	if v := c.QueryParam("step"); v != "" {
		step, err = strconv.Atoi(v)
		if err != nil || step <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "step must be a positive number of minutes"})
		}
	}

	resp := echo.Map{
		"date":  day.Format("2006-01-02"),
		"slots": []string{},
	}
	if !info.Active {
		return c.JSON(http.StatusOK, resp)
	}

	open, close, haveHours, err := h.Hours.OpenWindow(ctx, info.VenueID, int(day.Weekday()))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !haveHours {
		if !h.Policy.OpenWhenUnset {
			return c.JSON(http.StatusOK, resp)
		}
		open, close = 0, 24*60
	}
	openStart := day.Add(time.Duration(open) * time.Minute)
	openEnd := day.Add(time.Duration(close) * time.Minute)

	dayEnd := day.AddDate(0, 0, 1)
	confirmed, err := h.Reservations.FindConflicts(ctx, resourceID, day, dayEnd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	busy := make([]availability.Interval, 0, len(confirmed))
	for _, r := range confirmed {
		busy = append(busy, availability.Interval{Start: r.StartsAt, End: r.EndsAt})
	}

	windows, err := h.Blackouts.FindCandidates(ctx, info.VenueID, day, dayEnd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	busy = append(busy, availability.BusyFromBlackouts(windows, resourceID, day, info.Location)...)

	slots := availability.FreeSlots(openStart, openEnd,
		time.Duration(duration)*time.Minute, time.Duration(step)*time.Minute,
		busy, time.Now())

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	resp["slots"] = out
	return c.JSON(http.StatusOK, resp)
}

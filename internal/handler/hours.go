package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arenadesk/court-reservation/internal/model"
	"github.com/arenadesk/court-reservation/internal/repository"
)

// HoursHandler manages the weekly open/close grid of a venue.
type HoursHandler struct {
	Venues *repository.VenueRepo
	Hours  *repository.HoursRepo
}

// NewHoursHandler constructs an HoursHandler.
func NewHoursHandler(venues *repository.VenueRepo, hours *repository.HoursRepo) *HoursHandler {
	if venues == nil || hours == nil {
		panic("nil repository passed to NewHoursHandler")
	}
	return &HoursHandler{Venues: venues, Hours: hours}
}

type hoursEntry struct {
	Weekday     int `json:"weekday"`
	OpenMinute  int `json:"open_minute"`
	CloseMinute int `json:"close_minute"`
}

type replaceHoursRequest struct {
	Entries []hoursEntry `json:"entries"`
}

// ReplaceWeek handles PUT /v1/venues/:id/hours.  The request carries
// the complete weekly grid; weekdays left out become unconfigured
// (closed under the default policy).  Windows are minutes from local
// midnight and must satisfy 0 <= open < close <= 1440.
func (h *HoursHandler) ReplaceWeek(c echo.Context) error {
	venueID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	if _, err := h.Venues.GetByID(c.Request().Context(), venueID); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body replaceHoursRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	seen := make(map[int]bool, len(body.Entries))
	entries := make([]model.BusinessHours, 0, len(body.Entries))
	for _, e := range body.Entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "weekday must be 0 (Sunday) through 6 (Saturday)"})
		}
		if seen[e.Weekday] {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": fmt.Sprintf("duplicate weekday %d", e.Weekday)})
		}
		seen[e.Weekday] = true
		if e.OpenMinute < 0 || e.CloseMinute > 24*60 || e.OpenMinute >= e.CloseMinute {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "hours must satisfy 0 <= open_minute < close_minute <= 1440"})
		}
		entries = append(entries, model.BusinessHours{
			VenueID:     venueID,
			Weekday:     e.Weekday,
			OpenMinute:  e.OpenMinute,
			CloseMinute: e.CloseMinute,
		})
	}

	if err := h.Hours.ReplaceWeek(c.Request().Context(), venueID, entries); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update business hours"})
	}
	saved, err := h.Hours.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": saved})
}

// List handles GET /v1/venues/:id/hours.
func (h *HoursHandler) List(c echo.Context) error {
	venueID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	items, err := h.Hours.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

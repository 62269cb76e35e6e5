package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arenadesk/court-reservation/internal/model"
	"github.com/arenadesk/court-reservation/internal/repository"
)

// BlackoutHandler manages administrative blackout windows.
type BlackoutHandler struct {
	Venues    *repository.VenueRepo
	Blackouts *repository.BlackoutRepo
}

// NewBlackoutHandler constructs a BlackoutHandler.
func NewBlackoutHandler(venues *repository.VenueRepo, blackouts *repository.BlackoutRepo) *BlackoutHandler {
	if venues == nil || blackouts == nil {
		panic("nil repository passed to NewBlackoutHandler")
	}
	return &BlackoutHandler{Venues: venues, Blackouts: blackouts}
}

type createBlackoutRequest struct {
	Reason      string   `json:"reason" validate:"required,max=255"`
	StartDate   string   `json:"start_date" validate:"required"`
	EndDate     string   `json:"end_date" validate:"required"`
	StartMinute *int     `json:"start_minute"`
	EndMinute   *int     `json:"end_minute"`
	ResourceIDs []uint64 `json:"resource_ids"`
}

// Create handles POST /v1/venues/:id/blackouts.  Dates bound the
// window in the venue's local calendar; the optional minute pair turns
// it into a recurring daily sub-range.  Both minutes must be given
// together, which keeps a half-specified window from silently matching
// the whole day.
func (h *BlackoutHandler) Create(c echo.Context) error {
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
	var body createBlackoutRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	startDate, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	endDate, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if endDate.Before(startDate) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end_date must not be before start_date"})
	}
	if (body.StartMinute == nil) != (body.EndMinute == nil) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start_minute and end_minute must be set together"})
	}
	if body.StartMinute != nil {
		if *body.StartMinute < 0 || *body.EndMinute > 24*60 || *body.StartMinute >= *body.EndMinute {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "minutes must satisfy 0 <= start_minute < end_minute <= 1440"})
		}
	}

	w := &model.BlackoutWindow{
		VenueID:     venueID,
		Reason:      body.Reason,
		StartDate:   startDate,
		EndDate:     endDate,
		StartMinute: body.StartMinute,
		EndMinute:   body.EndMinute,
		ResourceIDs: body.ResourceIDs,
	}
	if err := h.Blackouts.Create(c.Request().Context(), w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create blackout window"})
	}
	return c.JSON(http.StatusCreated, w)
}

// ListByVenue handles GET /v1/venues/:id/blackouts.
func (h *BlackoutHandler) ListByVenue(c echo.Context) error {
	venueID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	items, err := h.Blackouts.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Deactivate handles DELETE /v1/blackouts/:id.  Windows are lifted by
// deactivation so past blackouts stay auditable.
func (h *BlackoutHandler) Deactivate(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Blackouts.SetActive(c.Request().Context(), id, false); err != nil {
		if errors.Is(err, repository.ErrBlackoutNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "blackout window not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arenadesk/court-reservation/internal/model"
	"github.com/arenadesk/court-reservation/internal/repository"
)

// VenueHandler groups venue and resource administration plus the
// public browse endpoints.
type VenueHandler struct {
	Venues    *repository.VenueRepo
	Resources *repository.ResourceRepo
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(venues *repository.VenueRepo, resources *repository.ResourceRepo) *VenueHandler {
	if venues == nil || resources == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues, Resources: resources}
}

type venueRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Timezone string `json:"timezone" validate:"required"`
}

// CreateVenue handles POST /v1/venues.  The timezone must be a valid
// IANA name; it anchors every civil-time computation for the venue, so
// a bad value is rejected up front rather than defaulted.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var body venueRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	if _, err := time.LoadLocation(body.Timezone); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "timezone must be a valid IANA name"})
	}
	venue := &model.Venue{Name: body.Name, Timezone: body.Timezone}
	if err := h.Venues.Create(c.Request().Context(), venue); err != nil {
		if repository.IsDuplicate(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
	}
	return c.JSON(http.StatusCreated, venue)
}

// ListVenues handles GET /v1/venues.
func (h *VenueHandler) ListVenues(c echo.Context) error {
	items, err := h.Venues.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateVenue handles PUT /v1/venues/:id.
func (h *VenueHandler) UpdateVenue(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body venueRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	if _, err := time.LoadLocation(body.Timezone); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "timezone must be a valid IANA name"})
	}
	if err := h.Venues.Update(c.Request().Context(), id, body.Name, body.Timezone); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		if repository.IsDuplicate(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeactivateVenue handles DELETE /v1/venues/:id.  Venues are never
// deleted, only deactivated: history and reporting depend on the row.
func (h *VenueHandler) DeactivateVenue(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Venues.SetActive(c.Request().Context(), id, false); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type resourceRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Sport string `json:"sport" validate:"omitempty,max=60"`
}

// CreateResource handles POST /v1/venues/:id/resources.
func (h *VenueHandler) CreateResource(c echo.Context) error {
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
	var body resourceRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	res := &model.Resource{VenueID: venueID, Name: body.Name}
	if body.Sport != "" {
		sport := body.Sport
		res.Sport = &sport
	}
	if err := h.Resources.Create(c.Request().Context(), res); err != nil {
		if repository.IsDuplicate(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "resource name already exists at this venue"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create resource"})
	}
	return c.JSON(http.StatusCreated, res)
}

// ListResources handles GET /v1/venues/:id/resources.
func (h *VenueHandler) ListResources(c echo.Context) error {
	venueID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	items, err := h.Resources.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeactivateResource handles DELETE /v1/resources/:id.
func (h *VenueHandler) DeactivateResource(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Resources.SetActive(c.Request().Context(), id, false); err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

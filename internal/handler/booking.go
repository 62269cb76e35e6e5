package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/arenadesk/court-reservation/internal/availability"
	"github.com/arenadesk/court-reservation/internal/model"
	"github.com/arenadesk/court-reservation/internal/queue"
	"github.com/arenadesk/court-reservation/internal/repository"
	queue_publisher "github.com/arenadesk/court-reservation/internal/service"
)

// BookingHandler owns the reservation lifecycle: creating a booking
// through the availability pipeline, listing a resource's day sheet
// and cancelling upcoming reservations.  The create path runs inside a
// transaction that locks the resource row, so two concurrent requests
// for overlapping slots serialize and the loser sees the winner's row
// in its conflict scan.
type BookingHandler struct {
	DB           *sql.DB
	Venues       *repository.VenueRepo
	Resources    *repository.ResourceRepo
	Hours        *repository.HoursRepo
	Reservations *repository.ReservationRepo
	Blackouts    *repository.BlackoutRepo
	Policy       availability.Policy
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil.
func NewBookingHandler(db *sql.DB, venues *repository.VenueRepo, resources *repository.ResourceRepo, hours *repository.HoursRepo, reservations *repository.ReservationRepo, blackouts *repository.BlackoutRepo, policy availability.Policy) *BookingHandler {
	if db == nil || venues == nil || resources == nil || hours == nil || reservations == nil || blackouts == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		DB:           db,
		Venues:       venues,
		Resources:    resources,
		Hours:        hours,
		Reservations: reservations,
		Blackouts:    blackouts,
		Policy:       policy,
	}
}

type createReservationRequest struct {
	StartsAt        string `json:"starts_at" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	CustomerName    string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone   string `json:"customer_phone" validate:"omitempty,max=32"`
}

// Create handles POST /v1/resources/:id/reservations.  The timestamp
// may carry any offset; it is normalized to UTC before the decision
// runs.  Policy rejections come back as 409 with the specific reason
// so clients can tell a taken slot from a closed venue.
func (h *BookingHandler) Create(c echo.Context) error {
	resourceID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
	}
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "starts_at must be an RFC 3339 timestamp"})
	}
	startsAt = startsAt.UTC()
	if !startsAt.After(time.Now()) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "starts_at must be in the future"})
	}

	ctx := c.Request().Context()
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stores := repository.TxCheckerStores{
		Tx:           tx,
		Resources:    h.Resources,
		Hours:        h.Hours,
		Reservations: h.Reservations,
		Blackouts:    h.Blackouts,
	}
	checker := availability.NewChecker(stores, stores, stores, stores, h.Policy)

	decision, err := checker.Decide(ctx, resourceID, startsAt, body.DurationMinutes)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		if errors.Is(err, availability.ErrInvalidDuration) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if !decision.Accepted {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "slot unavailable",
			"reason": decision.Reason,
		})
	}

	res := &model.Reservation{
		Reference:       uuid.NewString(),
		ResourceID:      resourceID,
		CustomerName:    body.CustomerName,
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(time.Duration(body.DurationMinutes) * time.Minute),
		DurationMinutes: body.DurationMinutes,
		Status:          model.ReservationConfirmed,
	}
	if body.CustomerPhone != "" {
		phone := body.CustomerPhone
		res.CustomerPhone = &phone
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		if repository.IsDuplicate(err) {
			// The unique index caught a concurrent insert the scan
			// could not see; same business condition as a read-time
			// conflict.
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "slot unavailable",
				"reason": availability.ReasonTimeConflict,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.publishConfirmed(res)

	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// ListByDay handles GET /v1/resources/:id/reservations?date=YYYY-MM-DD.
// The day is interpreted in the venue's local calendar; reservations of
// every status are returned so the day sheet shows cancellations too.
func (h *BookingHandler) ListByDay(c echo.Context) error {
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
	items, err := h.Reservations.ListByResourceAndRange(ctx, resourceID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles DELETE /v1/reservations/:id.  Only CONFIRMED
// reservations that have not started yet can be cancelled; the status
// check and the update run under a row lock so a reservation cannot be
// cancelled twice.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if res.Status != model.ReservationConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not active"})
	}
	if !res.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already started"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, model.ReservationCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}

// publishConfirmed fires the reservation.confirmed event in the
// background.  The booking already committed; a broker failure is
// logged and otherwise ignored.
func (h *BookingHandler) publishConfirmed(res *model.Reservation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.ReservationConfirmedEvent{
			EventID:         uuid.NewString(),
			ReservationID:   res.ID,
			Reference:       res.Reference,
			ResourceID:      res.ResourceID,
			CustomerName:    res.CustomerName,
			CustomerPhone:   res.CustomerPhone,
			StartsAt:        res.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:          res.EndsAt.UTC().Format(time.RFC3339),
			DurationMinutes: res.DurationMinutes,
			ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if resource, err := h.Resources.GetByID(ctx, res.ResourceID); err == nil {
			ev.ResourceName = resource.Name
			ev.VenueID = resource.VenueID
			if venue, err := h.Venues.GetByID(ctx, resource.VenueID); err == nil {
				ev.VenueName = venue.Name
			}
		}
		if err := queue_publisher.PublishReservationConfirmed(ctx, ev); err != nil {
			log.Printf("booking: publish reservation.confirmed failed: %v", err)
		}
	}()
}

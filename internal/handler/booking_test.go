package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// postReservation drives BookingHandler.Create with a JSON body against
// resource :id and returns the recorder.  Only the request validation
// phase runs for these inputs, so no database is needed.
func postReservation(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/resources/1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return rec
}

func TestCreateReservationRejectsPastStart(t *testing.T) {
	past := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"starts_at":%q,"duration_minutes":60,"customer_name":"Dana"}`, past)

	rec := postReservation(t, &BookingHandler{}, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if !strings.Contains(rec.Body.String(), "future") {
		t.Fatalf("body = %s, want a starts_at-in-the-future error", rec.Body.String())
	}
}

func TestCreateReservationRejectsMalformedTimestamp(t *testing.T) {
	body := `{"starts_at":"2026-03-02 14:00","duration_minutes":60,"customer_name":"Dana"}`

	rec := postReservation(t, &BookingHandler{}, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

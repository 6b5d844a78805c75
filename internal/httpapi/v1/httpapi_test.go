package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tablebook/reservations/internal/reservation"
	"github.com/tablebook/reservations/internal/service/booking"
	"github.com/tablebook/reservations/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setup(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()
	store := memory.New()
	h := New(store, store, []string{"http://localhost:3000"}, testLogger()).Handler()
	return store, h
}

// futureDatetime returns a bookable datetime comfortably past the
// advance-notice window.
func futureDatetime(days int, clock string) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02") + " " + clock
}

func validBody(datetime string) map[string]any {
	return map[string]any{
		"reservation_first_name": "Ada",
		"reservation_last_name":  "Lovelace",
		"reservation_datetime":   datetime,
		"phone_number":           "555-0101",
		"number_of_guests":       2,
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode errors: %v: %s", err, rec.Body.String())
	}
	return resp.Errors
}

func TestAddAndFetchByToken(t *testing.T) {
	_, h := setup(t)

	datetime := futureDatetime(3, "19:00")
	rec := doJSON(t, h, http.MethodPost, "/add-reservation", validBody(datetime))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var token string
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil || token == "" {
		t.Fatalf("expected token string body, got %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/get-reservation-via-token?reservation_token="+token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		FirstName      string `json:"reservation_first_name"`
		LastName       string `json:"reservation_last_name"`
		Datetime       string `json:"reservation_datetime"`
		PhoneNumber    string `json:"phone_number"`
		NumberOfGuests int    `json:"number_of_guests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FirstName != "Ada" || got.LastName != "Lovelace" || got.Datetime != datetime ||
		got.PhoneNumber != "555-0101" || got.NumberOfGuests != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFetchByToken_UnknownIs404(t *testing.T) {
	_, h := setup(t)

	rec := doJSON(t, h, http.MethodGet, "/get-reservation-via-token?reservation_token=nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Reservation not found" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestAddReservation_Invalid(t *testing.T) {
	_, h := setup(t)

	body := validBody(futureDatetime(3, "18:15"))
	body["number_of_guests"] = 7
	rec := doJSON(t, h, http.MethodPost, "/add-reservation", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	errs := decodeErrors(t, rec)
	if len(errs) != 2 || errs[0] != booking.MsgGuestsRange || errs[1] != booking.MsgSlotBoundary {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestAddReservation_SlotCapacity(t *testing.T) {
	_, h := setup(t)

	datetime := futureDatetime(5, "19:00")
	for i := 0; i < reservation.SlotCapacity; i++ {
		rec := doJSON(t, h, http.MethodPost, "/add-reservation", validBody(datetime))
		if rec.Code != http.StatusOK {
			t.Fatalf("create %d: expected 200, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
	rec := doJSON(t, h, http.MethodPost, "/add-reservation", validBody(datetime))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	errs := decodeErrors(t, rec)
	if len(errs) != 1 || errs[0] != booking.MsgSlotFull {
		t.Fatalf("unexpected errors: %v", errs)
	}

	rec = doJSON(t, h, http.MethodPost, "/add-reservation", validBody(futureDatetime(5, "19:30")))
	if rec.Code != http.StatusOK {
		t.Fatalf("next slot: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateReservation(t *testing.T) {
	store, h := setup(t)

	seeded := store.Seed(mustReservation(t, futureDatetime(4, "19:00")))

	body := validBody(futureDatetime(4, "20:00"))
	body["reservation_first_name"] = "Edith"
	rec := doJSON(t, h, http.MethodPut, "/update-reservation/1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Reservation updated successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	got, err := store.ReservationByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.FirstName != "Edith" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestUpdateReservation_NearTermRefused(t *testing.T) {
	store, h := setup(t)

	store.Seed(mustReservation(t, futureDatetime(1, "19:00")))

	rec := doJSON(t, h, http.MethodPut, "/update-reservation/1", validBody(futureDatetime(4, "19:00")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	errs := decodeErrors(t, rec)
	if len(errs) != 1 || errs[0] != booking.MsgEditWindow {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestDeleteReservation(t *testing.T) {
	store, h := setup(t)

	store.Seed(mustReservation(t, futureDatetime(4, "19:00")))

	rec := doJSON(t, h, http.MethodDelete, "/delete-reservation/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// A missing target is a validation failure, not a storage error.
	rec = doJSON(t, h, http.MethodDelete, "/delete-reservation/99", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	errs := decodeErrors(t, rec)
	if len(errs) != 1 || errs[0] != booking.MsgNotFound {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestListReservations(t *testing.T) {
	store, h := setup(t)

	past := mustReservation(t, "2001-01-01 19:00")
	store.Seed(past)
	store.Seed(mustReservation(t, futureDatetime(3, "19:00")))
	store.Seed(mustReservation(t, futureDatetime(4, "20:30")))

	rec := doJSON(t, h, http.MethodGet, "/reservations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var items []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(items), items)
	}
	for _, it := range items {
		for _, hidden := range []string{"id", "reservation_token", "phone_number"} {
			if _, ok := it[hidden]; ok {
				t.Errorf("list exposes %q: %v", hidden, it)
			}
		}
	}
}

func TestInvalidID(t *testing.T) {
	_, h := setup(t)

	rec := doJSON(t, h, http.MethodDelete, "/delete-reservation/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	_, h := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/add-reservation", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}

	// Unlisted origins get no allow-origin header.
	req = httptest.NewRequest(http.MethodOptions, "/add-reservation", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func mustReservation(t *testing.T, datetime string) reservation.Reservation {
	t.Helper()
	at, err := reservation.ParseDateTime(datetime)
	if err != nil {
		t.Fatalf("parse %q: %v", datetime, err)
	}
	return reservation.Reservation{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Phone:       "555-0199",
		PartySize:   4,
		ScheduledAt: at,
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/workshop-booking/internal/availability"
	"github.com/example/workshop-booking/internal/booking"
	"github.com/example/workshop-booking/internal/dialog"
	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/schedule"
	"github.com/example/workshop-booking/internal/storage"
)

func newDialogFixture(t *testing.T) (*DialogHandler, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	hours := schedule.NewProvider(store)
	avail := availability.New(store, hours)
	now := func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	validator := dialog.NewValidator(avail, hours, now)
	engine := booking.NewEngine(store, hours, avail, nil, slog.Default())
	return NewDialogHandler(validator, engine, slog.Default()), store
}

func postTurn(t *testing.T, h *DialogHandler, body string) (*httptest.ResponseRecorder, dialog.Result) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dialog/turn", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Turn(w, req)

	var res dialog.Result
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
		}
	}
	return w, res
}

func TestTurn_ElicitsDateFirst(t *testing.T) {
	h, _ := newDialogFixture(t)

	w, res := postTurn(t, h, `{"intent":"MakeBooking","phase":"validate","slots":{}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if res.Action != dialog.ActionElicit || res.Slot != dialog.SlotDate {
		t.Fatalf("expected date elicit, got %+v", res)
	}
}

func TestTurn_ValidRequestDelegates(t *testing.T) {
	h, _ := newDialogFixture(t)

	body := `{"intent":"MakeBooking","phase":"validate","slots":{
		"Date":"2026-03-20","Time":"11:00","Phone":"555-0100","Name":"Ana"}}`
	w, res := postTurn(t, h, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if res.Action != dialog.ActionDelegate {
		t.Fatalf("expected delegate, got %+v", res)
	}
}

func TestTurn_FulfillCommitsBooking(t *testing.T) {
	h, store := newDialogFixture(t)

	body := `{"intent":"MakeBooking","phase":"fulfill","slots":{
		"Date":"2026-03-20","Time":"11:00","Phone":"555-0100","Name":"Ana","Service":"Brakes"}}`
	w, res := postTurn(t, h, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if res.Action != dialog.ActionClose || !res.Fulfilled {
		t.Fatalf("expected fulfilled close, got %+v", res)
	}

	recs, err := store.Query(context.Background(), model.ShopPK(model.DefaultShop), model.ApptSlotPrefix("2026-03-20", "11:00"))
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected a committed record: recs=%v err=%v", recs, err)
	}
}

func TestTurn_CancelFlow(t *testing.T) {
	h, store := newDialogFixture(t)

	appt := model.Appointment{
		AppointmentID: "A-12AB34CD",
		ShopID:        model.DefaultShop,
		Service:       "Brakes",
		Date:          "2026-03-20",
		Time:          "11:00",
		CustomerName:  "Ana",
		Phone:         "555-0100",
	}
	if err := store.Put(context.Background(), appt.ShopRecord()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	w, res := postTurn(t, h, `{"intent":"CancelBooking","slots":{"AppointmentId":"A-12AB34CD"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if res.Action != dialog.ActionClose || !res.Fulfilled {
		t.Fatalf("expected fulfilled close, got %+v", res)
	}
}

func TestTurn_UnknownIntent(t *testing.T) {
	h, _ := newDialogFixture(t)

	w, res := postTurn(t, h, `{"intent":"OrderPizza","slots":{}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if res.Action != dialog.ActionClose || res.Fulfilled {
		t.Fatalf("expected polite refusal, got %+v", res)
	}
}

func TestTurn_BadRequests(t *testing.T) {
	h, _ := newDialogFixture(t)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/dialog/turn", nil)
	w := httptest.NewRecorder()
	h.Turn(w, getReq)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}

	w, _ = postTurn(t, h, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

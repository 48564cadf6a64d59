package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/workshop-booking/internal/schedule"
	"github.com/example/workshop-booking/internal/storage"
)

func newAdminFixture(t *testing.T, adminKey string) *AdminHandler {
	t.Helper()
	hours := schedule.NewProvider(storage.NewMemoryStore())
	keyHash := ""
	if adminKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt failed: %v", err)
		}
		keyHash = string(hash)
	}
	return NewAdminHandler(hours, keyHash, slog.Default())
}

func TestHours_GetReturnsDefaults(t *testing.T) {
	h := newAdminFixture(t, "")

	w := httptest.NewRecorder()
	h.Hours(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/hours", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload hoursPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if payload.Open != "09:00" || payload.Close != "18:00" || payload.SlotMinutes != 30 {
		t.Fatalf("unexpected defaults: %+v", payload)
	}
}

func TestHours_PutRequiresKey(t *testing.T) {
	h := newAdminFixture(t, "hunter2")
	body := `{"open":"08:00","close":"16:00","slot_minutes":20}`

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Hours(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours", strings.NewReader(body))
	req.Header.Set(adminKeyHeader, "wrong")
	w = httptest.NewRecorder()
	h.Hours(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", w.Code)
	}
}

func TestHours_PutUpdates(t *testing.T) {
	h := newAdminFixture(t, "hunter2")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours",
		strings.NewReader(`{"open":"08:00","close":"16:00","slot_minutes":20}`))
	req.Header.Set(adminKeyHeader, "hunter2")
	w := httptest.NewRecorder()
	h.Hours(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.Hours(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/hours", nil))
	var payload hoursPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if payload.Open != "08:00" || payload.Close != "16:00" || payload.SlotMinutes != 20 {
		t.Fatalf("update not applied: %+v", payload)
	}
}

func TestHours_PutRejectsInvalid(t *testing.T) {
	h := newAdminFixture(t, "hunter2")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours",
		strings.NewReader(`{"open":"18:00","close":"09:00","slot_minutes":30}`))
	req.Header.Set(adminKeyHeader, "hunter2")
	w := httptest.NewRecorder()
	h.Hours(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHours_PutDisabledWithoutHash(t *testing.T) {
	h := newAdminFixture(t, "")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/hours",
		strings.NewReader(`{"open":"08:00","close":"16:00","slot_minutes":20}`))
	req.Header.Set(adminKeyHeader, "anything")
	w := httptest.NewRecorder()
	h.Hours(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when no hash configured, got %d", w.Code)
	}
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/workshop-booking/internal/schedule"
)

const adminKeyHeader = "X-Admin-Key"

// AdminHandler exposes the business-hours record. Updates require the admin
// key, checked against a bcrypt hash from the environment; with no hash
// configured, updates are disabled entirely.
type AdminHandler struct {
	hours   *schedule.Provider
	keyHash string
	logger  *slog.Logger
}

func NewAdminHandler(hours *schedule.Provider, keyHash string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{hours: hours, keyHash: strings.TrimSpace(keyHash), logger: logger}
}

type hoursPayload struct {
	Open        string `json:"open"`
	Close       string `json:"close"`
	SlotMinutes int    `json:"slot_minutes"`
}

func (h *AdminHandler) Hours(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getHours(w, r)
	case http.MethodPut:
		h.putHours(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) getHours(w http.ResponseWriter, r *http.Request) {
	hrs, err := h.hours.Current(r.Context())
	if err != nil {
		h.logger.Error("hours read failed", "err", err)
		http.Error(w, "failed to load hours", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hoursPayload{Open: hrs.Open, Close: hrs.Close, SlotMinutes: hrs.SlotMinutes})
}

func (h *AdminHandler) putHours(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload hoursPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	hrs := schedule.BusinessHours{
		Open:        strings.TrimSpace(payload.Open),
		Close:       strings.TrimSpace(payload.Close),
		SlotMinutes: payload.SlotMinutes,
	}
	if err := hrs.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.hours.Save(r.Context(), hrs); err != nil {
		h.logger.Error("hours update failed", "err", err)
		http.Error(w, "failed to save hours", http.StatusInternalServerError)
		return
	}

	h.logger.Info("business hours updated", "open", hrs.Open, "close", hrs.Close, "slot_minutes", hrs.SlotMinutes)
	writeJSON(w, http.StatusOK, payload)
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.keyHash == "" {
		return false
	}
	key := strings.TrimSpace(r.Header.Get(adminKeyHeader))
	if key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.keyHash), []byte(key)) == nil
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/workshop-booking/internal/availability"
	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/storage"
)

// PublicHandler serves the advisory read endpoints: open slots for a day and
// the shop's appointment list.
type PublicHandler struct {
	store  storage.Store
	avail  *availability.Service
	logger *slog.Logger
}

func NewPublicHandler(store storage.Store, avail *availability.Service, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{store: store, avail: avail, logger: logger}
}

type slotsResponse struct {
	Shop  string   `json:"shop"`
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

func (h *PublicHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		shop = model.DefaultShop
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	slots, err := h.avail.Suggest(r.Context(), shop, date, limit)
	if err != nil {
		h.logger.Error("slot suggestion failed", "err", err, "shop", shop, "date", date)
		http.Error(w, "failed to load slots", http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []string{}
	}

	writeJSON(w, http.StatusOK, slotsResponse{Shop: shop, Date: date, Slots: slots})
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Service       string `json:"service"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	Plate         string `json:"plate,omitempty"`
}

func (h *PublicHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		shop = model.DefaultShop
	}

	prefix := model.ApptKeyPrefix
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		prefix = model.ApptDatePrefix(date)
	}

	recs, err := h.store.Query(r.Context(), model.ShopPK(shop), prefix)
	if err != nil {
		h.logger.Error("appointment list failed", "err", err, "shop", shop)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentItem, 0, len(recs))
	for _, rec := range recs {
		date, timeOfDay, id, ok := model.ParseApptSK(rec.SK)
		if !ok {
			continue
		}
		items = append(items, appointmentItem{
			AppointmentID: id,
			Date:          date,
			Time:          timeOfDay,
			Service:       rec.Attrs["service"],
			CustomerName:  rec.Attrs["name"],
			Phone:         rec.Attrs["phone"],
			Plate:         rec.Attrs["plate"],
		})
	}

	writeJSON(w, http.StatusOK, items)
}

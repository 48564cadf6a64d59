package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/workshop-booking/internal/availability"
	"github.com/example/workshop-booking/internal/dialog"
	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/schedule"
	"github.com/example/workshop-booking/internal/storage"
)

const (
	EventBooked    = "booking.appointment.booked.v1"
	EventCancelled = "booking.appointment.cancelled.v1"
)

// EventSink receives domain events after a successful write. A nil sink
// disables eventing entirely.
type EventSink interface {
	Enqueue(ctx context.Context, eventType, aggregateID string, payload []byte) error
}

// Engine performs the final collision-checked booking writes and the
// cancellation lookups. It is the only writer of appointment records.
type Engine struct {
	store  storage.Store
	hours  *schedule.Provider
	avail  *availability.Service
	events EventSink
	logger *slog.Logger
}

func NewEngine(store storage.Store, hours *schedule.Provider, avail *availability.Service, events EventSink, logger *slog.Logger) *Engine {
	return &Engine{store: store, hours: hours, avail: avail, events: events, logger: logger}
}

// Commit turns a validated booking request into a persisted appointment pair.
// Every failure here is terminal for the dialog: hours may have changed since
// validation, and a concurrent dialog may have claimed the slot in the
// meantime. The caller gets a close result either way, never a retry loop.
func (e *Engine) Commit(ctx context.Context, req model.BookingRequest) (dialog.Result, error) {
	if req.Date == "" || req.Time == "" || req.Phone == "" {
		return dialog.Close(false, "I'm missing details for the booking (date, time, and phone)."), nil
	}

	hrs, err := e.hours.Current(ctx)
	if err != nil {
		return dialog.Result{}, err
	}
	if req.Time < hrs.Open || req.Time > hrs.Close {
		return dialog.Close(false, fmt.Sprintf("Our hours are %s to %s.", hrs.Open, hrs.Close)), nil
	}

	appt := model.Appointment{
		AppointmentID: model.NewAppointmentID(),
		ShopID:        req.ShopID,
		Service:       req.Service,
		Date:          req.Date,
		Time:          req.Time,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Plate:         req.Plate,
	}

	// Final narrow collision check. Validation may have raced another dialog;
	// whichever commit queries first after the other's write loses here.
	taken, err := e.avail.SlotTaken(ctx, appt.ShopID, appt.Date, appt.Time)
	if err != nil {
		return dialog.Result{}, err
	}
	if taken {
		return dialog.Close(false, "That time was just taken. Please start a new booking for another slot."), nil
	}

	// Two independent writes, no cross-record transaction. A crash in between
	// leaves one projection orphaned, which readers and cancellation tolerate.
	if err := e.store.Put(ctx, appt.ShopRecord()); err != nil {
		return dialog.Result{}, err
	}
	if err := e.store.Put(ctx, appt.CustomerRecord()); err != nil {
		return dialog.Result{}, err
	}

	e.emit(ctx, EventBooked, appt.AppointmentID, map[string]string{
		"appointment_id": appt.AppointmentID,
		"shop_id":        appt.ShopID,
		"service":        appt.Service,
		"date":           appt.Date,
		"time":           appt.Time,
		"phone":          appt.Phone,
	})

	msg := fmt.Sprintf("Done, %s. I booked %s on %s at %s. Your booking ID is %s.",
		appt.CustomerName, appt.Service, appt.Date, appt.Time, appt.AppointmentID)
	return dialog.Close(true, msg), nil
}

// emit hands an event to the sink. The store is the source of truth; a sink
// failure is logged, never surfaced to the customer.
func (e *Engine) emit(ctx context.Context, eventType, aggregateID string, fields map[string]string) {
	if e.events == nil {
		return
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		e.logger.Error("failed to build event payload", "err", err, "event_type", eventType)
		return
	}
	if err := e.events.Enqueue(ctx, eventType, aggregateID, payload); err != nil {
		e.logger.Error("failed to enqueue event", "err", err, "event_type", eventType)
	}
}

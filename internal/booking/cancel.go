package booking

import (
	"context"
	"strings"

	"github.com/example/workshop-booking/internal/dialog"
	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/storage"
)

// CancelParams identify the booking to cancel. AppointmentID wins when given;
// otherwise phone and date together identify one booking. ShopID falls back
// to the default shop.
type CancelParams struct {
	AppointmentID string
	Phone         string
	Date          string
	ShopID        string
}

func CancelParamsFromTurn(t dialog.Turn) CancelParams {
	return CancelParams{
		AppointmentID: t.Slot(dialog.SlotAppointmentID),
		Phone:         t.Slot(dialog.SlotPhone),
		Date:          t.Slot(dialog.SlotDate),
		ShopID:        t.Slot(dialog.SlotShopID),
	}
}

// Cancel locates and deletes appointment records. Both projections are
// deleted when both can be located, but a missing one is fine: the dual
// write has no transaction, so a one-sided record is an accepted state, and
// cancelling it still succeeds as long as anything was deleted.
func (e *Engine) Cancel(ctx context.Context, p CancelParams) (dialog.Result, error) {
	shop := p.ShopID
	if shop == "" {
		shop = model.DefaultShop
	}

	var targets []storage.Record
	switch {
	case p.AppointmentID != "":
		// Scan the whole shop view by id suffix. There should be at most one
		// match, but duplicates are deleted too rather than trusted away.
		recs, err := e.store.Query(ctx, model.ShopPK(shop), model.ApptKeyPrefix)
		if err != nil {
			return dialog.Result{}, err
		}
		for _, rec := range recs {
			if strings.HasSuffix(rec.SK, "#"+p.AppointmentID) {
				targets = append(targets, rec)
			}
		}
		if p.Phone != "" {
			recs, err := e.store.Query(ctx, model.CustomerPK(p.Phone), model.ApptKeyPrefix)
			if err != nil {
				return dialog.Result{}, err
			}
			for _, rec := range recs {
				if strings.HasSuffix(rec.SK, "#"+p.AppointmentID) {
					targets = append(targets, rec)
				}
			}
		}
	case p.Phone != "" && p.Date != "":
		recs, err := e.store.Query(ctx, model.CustomerPK(p.Phone), model.ApptDatePrefix(p.Date))
		if err != nil {
			return dialog.Result{}, err
		}
		// Several bookings that day resolve to the earliest sort key.
		if len(recs) > 0 {
			targets = append(targets, recs[0])
		}
	default:
		return dialog.Close(false, "I need the booking ID, or a phone number and date."), nil
	}

	if len(targets) == 0 {
		return dialog.Close(false, "I couldn't find that booking."), nil
	}

	deleted := 0
	for _, rec := range targets {
		ok, err := e.store.Delete(ctx, rec.PK, rec.SK)
		if err != nil {
			return dialog.Result{}, err
		}
		if ok {
			deleted++
		}
	}
	if deleted == 0 {
		return dialog.Close(false, "I couldn't find that booking."), nil
	}

	apptID := p.AppointmentID
	if apptID == "" {
		if _, _, id, ok := model.ParseApptSK(targets[0].SK); ok {
			apptID = id
		}
	}
	e.emit(ctx, EventCancelled, apptID, map[string]string{
		"appointment_id": apptID,
		"shop_id":        shop,
	})

	return dialog.Close(true, "Your booking is cancelled."), nil
}

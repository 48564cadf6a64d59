package availability

import (
	"context"

	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/schedule"
	"github.com/example/workshop-booking/internal/storage"
)

// Service answers which times are taken for a shop and date, and which open
// slots are worth suggesting. It is a thin pass-through over the store: every
// call hits the latest committed state, nothing is cached between turns.
type Service struct {
	store storage.Store
	hours *schedule.Provider
}

func New(store storage.Store, hours *schedule.Provider) *Service {
	return &Service{store: store, hours: hours}
}

// TakenTimes returns every time already booked for the shop and date,
// regardless of which appointment holds it.
func (s *Service) TakenTimes(ctx context.Context, shop, date string) (map[string]struct{}, error) {
	recs, err := s.store.Query(ctx, model.ShopPK(shop), model.ApptDatePrefix(date))
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if t := rec.Attrs["time"]; t != "" {
			taken[t] = struct{}{}
		}
	}
	return taken, nil
}

// SlotTaken reports whether one exact slot is currently occupied. The commit
// path uses this as its final, narrow collision check, since TakenTimes may
// have been computed against a slightly older read earlier in the dialog.
func (s *Service) SlotTaken(ctx context.Context, shop, date, timeOfDay string) (bool, error) {
	recs, err := s.store.Query(ctx, model.ShopPK(shop), model.ApptSlotPrefix(date, timeOfDay))
	if err != nil {
		return false, err
	}
	return len(recs) > 0, nil
}

// Suggest returns up to limit open slots for the day in chronological order.
// Advisory only: an empty result is normal (fully booked or misconfigured
// hours), and the commit path re-checks collisions on its own.
func (s *Service) Suggest(ctx context.Context, shop, date string, limit int) ([]string, error) {
	hrs, err := s.hours.Current(ctx)
	if err != nil {
		return nil, err
	}
	taken, err := s.TakenTimes(ctx, shop, date)
	if err != nil {
		return nil, err
	}

	var open []string
	for _, t := range schedule.EnumerateSlots(hrs.Open, hrs.Close, hrs.SlotMinutes) {
		if _, ok := taken[t]; ok {
			continue
		}
		open = append(open, t)
		if limit > 0 && len(open) == limit {
			break
		}
	}
	return open, nil
}

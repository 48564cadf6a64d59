package schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/storage"
)

// BusinessHours is the shop-wide booking window. Times are zero-padded 24h
// "HH:MM" strings, so lexicographic order matches clock order.
type BusinessHours struct {
	Open        string
	Close       string
	SlotMinutes int
}

func DefaultHours() BusinessHours {
	return BusinessHours{Open: "09:00", Close: "18:00", SlotMinutes: 30}
}

func (h BusinessHours) Validate() error {
	if _, err := ParseClock(h.Open); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if _, err := ParseClock(h.Close); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if h.Open >= h.Close {
		return errors.New("open must be before close")
	}
	if h.SlotMinutes <= 0 {
		return errors.New("slotMinutes must be positive")
	}
	return nil
}

// Provider reads the hours record on every call: configuration changes take
// effect on the next turn without a restart, and validator/commit both see
// whatever is current at their own check.
type Provider struct {
	store storage.Store
}

func NewProvider(store storage.Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Current(ctx context.Context) (BusinessHours, error) {
	rec, err := p.store.Get(ctx, model.InfoPartitionKey, model.HoursSortKey)
	if errors.Is(err, storage.ErrNotFound) {
		return DefaultHours(), nil
	}
	if err != nil {
		return BusinessHours{}, err
	}

	hrs := DefaultHours()
	if v := rec.Attrs["open"]; v != "" {
		hrs.Open = v
	}
	if v := rec.Attrs["close"]; v != "" {
		hrs.Close = v
	}
	if v := rec.Attrs["slotMinutes"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			hrs.SlotMinutes = n
		}
	}
	return hrs, nil
}

func (p *Provider) Save(ctx context.Context, hrs BusinessHours) error {
	if err := hrs.Validate(); err != nil {
		return err
	}
	return p.store.Put(ctx, storage.Record{
		PK: model.InfoPartitionKey,
		SK: model.HoursSortKey,
		Attrs: map[string]string{
			"open":        hrs.Open,
			"close":       hrs.Close,
			"slotMinutes": strconv.Itoa(hrs.SlotMinutes),
		},
	})
}

package schedule

import (
	"context"
	"testing"

	"github.com/example/workshop-booking/internal/storage"
)

func TestProvider_DefaultsWhenUnconfigured(t *testing.T) {
	p := NewProvider(storage.NewMemoryStore())

	hrs, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if hrs.Open != "09:00" || hrs.Close != "18:00" || hrs.SlotMinutes != 30 {
		t.Fatalf("unexpected defaults: %+v", hrs)
	}
}

func TestProvider_SaveRoundTrip(t *testing.T) {
	p := NewProvider(storage.NewMemoryStore())
	ctx := context.Background()

	want := BusinessHours{Open: "08:30", Close: "17:00", SlotMinutes: 15}
	if err := p.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := p.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestProvider_SaveRejectsInvalid(t *testing.T) {
	p := NewProvider(storage.NewMemoryStore())
	ctx := context.Background()

	cases := []BusinessHours{
		{Open: "18:00", Close: "09:00", SlotMinutes: 30},
		{Open: "09:00", Close: "09:00", SlotMinutes: 30},
		{Open: "09:00", Close: "18:00", SlotMinutes: 0},
		{Open: "nine", Close: "18:00", SlotMinutes: 30},
	}
	for _, hrs := range cases {
		if err := p.Save(ctx, hrs); err == nil {
			t.Fatalf("expected Save to reject %+v", hrs)
		}
	}
}

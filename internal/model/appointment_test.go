package model

import (
	"regexp"
	"testing"
)

func TestKeyConstruction(t *testing.T) {
	if got := ShopPK("Main"); got != "SHOP#Main" {
		t.Fatalf("unexpected shop pk %q", got)
	}
	if got := CustomerPK("555-0100"); got != "CUSTOMER#555-0100" {
		t.Fatalf("unexpected customer pk %q", got)
	}
	if got := ApptSK("2026-09-01", "10:30", "A-12345678"); got != "APPT#2026-09-01#10:30#A-12345678" {
		t.Fatalf("unexpected sort key %q", got)
	}
}

func TestParseApptSK(t *testing.T) {
	date, timeOfDay, id, ok := ParseApptSK("APPT#2026-09-01#10:30#A-12345678")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if date != "2026-09-01" || timeOfDay != "10:30" || id != "A-12345678" {
		t.Fatalf("unexpected parts: %q %q %q", date, timeOfDay, id)
	}

	for _, bad := range []string{"", "HOURS", "APPT#2026-09-01", "BOOK#2026-09-01#10:30#A-1"} {
		if _, _, _, ok := ParseApptSK(bad); ok {
			t.Fatalf("expected parse to fail for %q", bad)
		}
	}
}

func TestNewAppointmentID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^A-[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewAppointmentID()
		if !pattern.MatchString(id) {
			t.Fatalf("unexpected id format %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestProjectionsShareSortKey(t *testing.T) {
	appt := Appointment{
		AppointmentID: "A-0000ABCD",
		ShopID:        "Main",
		Service:       "Tires",
		Date:          "2026-09-01",
		Time:          "10:30",
		CustomerName:  "Rosa",
		Phone:         "555-0100",
	}
	shop := appt.ShopRecord()
	cust := appt.CustomerRecord()
	if shop.SK != cust.SK {
		t.Fatalf("sort keys differ: %q vs %q", shop.SK, cust.SK)
	}
	if shop.PK != "SHOP#Main" || cust.PK != "CUSTOMER#555-0100" {
		t.Fatalf("unexpected partition keys %q / %q", shop.PK, cust.PK)
	}
	if shop.Attrs["phone"] != "555-0100" || cust.Attrs["shop"] != "Main" {
		t.Fatalf("projection attrs incomplete: %v / %v", shop.Attrs, cust.Attrs)
	}
}

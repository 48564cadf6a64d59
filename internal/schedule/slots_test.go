package schedule

import (
	"reflect"
	"testing"
)

func TestEnumerateSlots_InclusiveUpperBound(t *testing.T) {
	got := EnumerateSlots("09:00", "10:00", 30)
	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEnumerateSlots_PartialLastStep(t *testing.T) {
	got := EnumerateSlots("09:00", "09:50", 30)
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEnumerateSlots_OpenEqualsClose(t *testing.T) {
	got := EnumerateSlots("09:00", "09:00", 30)
	if len(got) != 1 || got[0] != "09:00" {
		t.Fatalf("expected single 09:00 slot, got %v", got)
	}
}

func TestEnumerateSlots_Misconfigured(t *testing.T) {
	cases := []struct {
		name        string
		open, close string
		step        int
	}{
		{"zero step", "09:00", "18:00", 0},
		{"negative step", "09:00", "18:00", -15},
		{"open after close", "18:00", "09:00", 30},
		{"bad open", "9am", "18:00", 30},
		{"bad close", "09:00", "late", 30},
	}
	for _, tc := range cases {
		if got := EnumerateSlots(tc.open, tc.close, tc.step); len(got) != 0 {
			t.Fatalf("%s: expected no slots, got %v", tc.name, got)
		}
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("14:35")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if m != 14*60+35 {
		t.Fatalf("expected 875 minutes, got %d", m)
	}

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "12-30", "ab:cd", "12:3x"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(9*60 + 5); got != "09:05" {
		t.Fatalf("expected 09:05, got %q", got)
	}
}

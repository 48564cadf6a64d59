package schedule

import (
	"fmt"
	"strconv"
)

// EnumerateSlots returns every slot start from open to close inclusive,
// stepping by stepMinutes. A slot landing exactly on close is a valid start.
// Misconfigured input (non-positive step, open after close, unparseable
// times) yields an empty sequence: callers treat that as "no availability",
// never as an error.
func EnumerateSlots(open, close string, stepMinutes int) []string {
	if stepMinutes <= 0 {
		return nil
	}
	start, err := ParseClock(open)
	if err != nil {
		return nil
	}
	end, err := ParseClock(close)
	if err != nil {
		return nil
	}
	if start > end {
		return nil
	}

	var slots []string
	for m := start; m <= end; m += stepMinutes {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// ParseClock converts a zero-padded 24h "HH:MM" value to minutes since
// midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

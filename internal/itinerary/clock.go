package itinerary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidClock indicates a time string that is not of the form "HH:MM".
var ErrInvalidClock = errors.New("invalid clock time")

// ParseClock converts an "HH:MM" string to minutes from midnight. A single
// hour digit is accepted ("9:00"). This is the only place wall-clock strings
// enter the planner; everything past it works in minutes.
func ParseClock(s string) (float64, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return float64(hours*60 + minutes), nil
}

// FormatClock renders minutes from midnight as an "HH:MM" string. Fractional
// minutes are rounded to the nearest whole minute.
func FormatClock(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
}

package itinerary

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"9:00", 540},
		{"18:30", 1110},
		{"23:59", 1439},
		{" 10:15 ", 615},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "900", "24:00", "12:60", "12:5", "ab:cd", "12:00:00"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseClock(in); !errors.Is(err, ErrInvalidClock) {
				t.Errorf("expected ErrInvalidClock, got %v", err)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{1110, "18:30"},
		{545.4, "09:05"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%f): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

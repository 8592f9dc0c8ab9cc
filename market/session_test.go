package market

import (
	"testing"
	"time"
)

func day(hour, min, sec int) time.Time {
	return time.Date(2025, 6, 2, hour, min, sec, 0, time.UTC)
}

func TestSessionOpen(t *testing.T) {
	t.Parallel()

	s := NewSession(nil)

	expected := map[int]bool{}
	for h := 9; h < 14; h++ {
		expected[h] = true
	}
	for h := 16; h < 24; h++ {
		expected[h] = true
	}

	for h := 0; h < 24; h++ {
		if got := s.Open(day(h, 30, 0)); got != expected[h] {
			t.Errorf("Open at hour %d = %v, expected %v", h, got, expected[h])
		}
	}
}

func TestSessionNextBoundary(t *testing.T) {
	t.Parallel()

	s := NewSession(nil)

	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{"morning open closes at 14", day(10, 15, 0), day(14, 0, 0)},
		{"just after morning open", day(9, 0, 1), day(14, 0, 0)},
		{"evening open runs to end of day", day(20, 0, 0), day(23, 59, 59)},
		{"before first open", day(6, 45, 0), day(9, 0, 0)},
		{"midday gap opens at 16", day(14, 30, 0), day(16, 0, 0)},
		{"last second of the gap", day(15, 59, 59), day(16, 0, 0)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := s.NextBoundary(tt.now); !got.Equal(tt.expected) {
				t.Fatalf("NextBoundary(%v) = %v, expected %v", tt.now, got, tt.expected)
			}
		})
	}
}

func TestSessionNextBoundaryWrapsToNextDay(t *testing.T) {
	t.Parallel()

	// A schedule whose last window closes before midnight leaves the late
	// evening pointing at tomorrow's open.
	s := NewSession([]Window{{Open: 9, Close: 14}})

	got := s.NextBoundary(day(15, 0, 0))
	expected := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Fatalf("NextBoundary = %v, expected %v", got, expected)
	}
}

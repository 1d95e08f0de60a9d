package services

import (
	"errors"
	"testing"
	"time"
)

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2026, time.August, 30, 15, 30, 0, 0, time.UTC)

	t.Run("month starts at the first of the current month", func(t *testing.T) {
		from, err := periodWindow(now, PeriodMonth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
		if from == nil || !from.Equal(want) {
			t.Errorf("from = %v, want %v", from, want)
		}
	})

	t.Run("year starts on january first", func(t *testing.T) {
		from, err := periodWindow(now, PeriodYear)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		if from == nil || !from.Equal(want) {
			t.Errorf("from = %v, want %v", from, want)
		}
	})

	t.Run("all time has no lower bound", func(t *testing.T) {
		from, err := periodWindow(now, PeriodAllTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if from != nil {
			t.Errorf("from = %v, want nil", from)
		}
	})

	t.Run("unknown period fails validation", func(t *testing.T) {
		_, err := periodWindow(now, LeaderboardPeriod("week"))
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("error = %v, want ErrValidationFailed", err)
		}
	})
}

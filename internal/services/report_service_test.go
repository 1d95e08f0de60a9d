package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025, GROK, 8th std, IOT", "2025-GROK-8th-std-IOT"},
		{"2025, CFLC, 3rd std", "2025-CFLC-3rd-std"},
		{"plain", "plain"},
		{"trailing, ", "trailing"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetTopStudentReportValidation(t *testing.T) {
	svc := &reportService{logger: slog.Default()}

	tests := []struct {
		name  string
		month int
		year  int
	}{
		{"month too low", 0, 2026},
		{"month too high", 13, 2026},
		{"year too low", 6, 1999},
		{"year too high", 6, 2101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetTopStudentReport(context.Background(), tt.month, tt.year)
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

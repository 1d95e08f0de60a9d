package services

import (
	"reflect"
	"testing"

	"github.com/steamlab-platform/lab-service/internal/models"
)

func TestGenerateCohortName(t *testing.T) {
	iot := models.GrokIOT
	robotics := models.GrokRobotics

	tests := []struct {
		name     string
		year     int
		section  models.LabSection
		standard int
		spec     *models.GrokSpecialization
		want     string
	}{
		{
			name:     "grok cohort with specialization",
			year:     2025,
			section:  models.SectionGrok,
			standard: 8,
			spec:     &iot,
			want:     "2025, GROK, 8th std, IOT",
		},
		{
			name:     "cflc cohort without specialization",
			year:     2025,
			section:  models.SectionCFLC,
			standard: 3,
			want:     "2025, CFLC, 3rd std",
		},
		{
			name:     "first standard",
			year:     2024,
			section:  models.SectionCFLC,
			standard: 1,
			want:     "2024, CFLC, 1st std",
		},
		{
			name:     "second standard",
			year:     2024,
			section:  models.SectionCFLC,
			standard: 2,
			want:     "2024, CFLC, 2nd std",
		},
		{
			name:     "eleventh standard keeps th suffix",
			year:     2026,
			section:  models.SectionGrok,
			standard: 11,
			spec:     &robotics,
			want:     "2026, GROK, 11th std, Robotics",
		},
		{
			name:     "twelfth standard keeps th suffix",
			year:     2026,
			section:  models.SectionGrok,
			standard: 12,
			spec:     &robotics,
			want:     "2026, GROK, 12th std, Robotics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateCohortName(tt.year, tt.section, tt.standard, tt.spec)
			if got != tt.want {
				t.Errorf("generateCohortName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPartitionEnrollmentIDs(t *testing.T) {
	tests := []struct {
		name        string
		requested   []uint
		valid       []uint
		enrolled    []uint
		wantNew     []uint
		wantSkipped []uint
		wantInvalid []uint
	}{
		{
			name:        "all new",
			requested:   []uint{1, 2, 3},
			valid:       []uint{1, 2, 3},
			wantNew:     []uint{1, 2, 3},
			wantSkipped: []uint{},
		},
		{
			name:        "already enrolled are skipped",
			requested:   []uint{1, 2, 3},
			valid:       []uint{1, 2, 3},
			enrolled:    []uint{2},
			wantNew:     []uint{1, 3},
			wantSkipped: []uint{2},
		},
		{
			name:        "unknown students are invalid",
			requested:   []uint{1, 99, 2},
			valid:       []uint{1, 2},
			wantNew:     []uint{1, 2},
			wantSkipped: []uint{},
			wantInvalid: []uint{99},
		},
		{
			name:        "duplicates within the request collapse",
			requested:   []uint{5, 5, 6},
			valid:       []uint{5, 6},
			wantNew:     []uint{5, 6},
			wantSkipped: []uint{},
		},
		{
			name:        "everything enrolled already",
			requested:   []uint{7, 8},
			valid:       []uint{7, 8},
			enrolled:    []uint{7, 8},
			wantNew:     []uint{},
			wantSkipped: []uint{7, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotNew, gotSkipped, gotInvalid := partitionEnrollmentIDs(tt.requested, tt.valid, tt.enrolled)

			if !reflect.DeepEqual(gotNew, tt.wantNew) {
				t.Errorf("newIDs = %v, want %v", gotNew, tt.wantNew)
			}
			if !reflect.DeepEqual(gotSkipped, tt.wantSkipped) {
				t.Errorf("skipped = %v, want %v", gotSkipped, tt.wantSkipped)
			}
			if !reflect.DeepEqual(gotInvalid, tt.wantInvalid) {
				t.Errorf("invalid = %v, want %v", gotInvalid, tt.wantInvalid)
			}
		})
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{10, "10th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{23, "23rd"},
	}

	for _, tt := range tests {
		if got := ordinal(tt.n); got != tt.want {
			t.Errorf("ordinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
